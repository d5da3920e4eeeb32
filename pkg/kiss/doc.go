// Package kiss provides KISS TNC framing support.
package kiss

// KISS is spoken between a host packet-radio application (e.g. an
// AX.25 stack) and the TNC over a serial link. Frames are delimited by
// FEND and byte-stuffed so FEND and FESC never appear inside a frame:
//
//	FEND | command | payload... | FEND
//
// FEND inside the frame is sent as FESC TFEND, FESC as FESC TFESC.
// The command byte carries the TNC port in its high nibble and the
// command code in its low nibble. Repeated FENDs are idle/sync fill.
//
// KISS is a transport substrate without delivery guarantees: bad
// frames are dropped and never retransmitted at this layer.
//
// Producer: host application / TNC
// Consumer: TNC / host application
