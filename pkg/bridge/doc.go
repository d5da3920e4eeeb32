// Package bridge implements the KISS TNC: it moves frames between the
// host serial link and the packet radio.
//
// One Step services at most one direction, serial first:
//
//	serial bytes -> kiss.Decoder -> buffer + checksum trailer -> radio
//	radio unit  -> checksum verify -> kiss frame -> serial
//
// A frame failing to decode or verify is dropped and the error
// indicator latched until the next successful transfer. A radio
// without successful traffic for WatchdogInterval is hard reset
// and reprogrammed.
package bridge
