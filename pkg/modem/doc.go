// Package modem holds the LoRa modem configuration programmed into the
// radio at start-up and after every watchdog reset.
//
// A modem preset is the raw content of the three RF95 modem config
// registers {REG-0x1D, REG-0x1E, REG-0x26}. Presets are kept verbatim;
// decoders only interpret them for display and validation.
//
//	REG-0x1D  bit 7-4 bandwidth, bit 3-1 coding rate, bit 0 implicit header
//	REG-0x1E  bit 7-4 spreading factor, bit 3 TX continuous, bit 2 payload CRC
//	REG-0x26  bit 3 mobile node, bit 2 AGC
package modem
