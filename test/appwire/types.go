// Package appwire contains application-defined messages used to test custom kinds.
package appwire

// Chat is the text message sent by the device.
type Chat struct {
	Text string
}

// Score is the game score of the device.
type Score struct {
	Points uint64
}
