// Package linkport provides a line-oriented session over a serial port.
//
// A Session owns exactly one open port. Outgoing commands are written as
// newline-terminated text lines; inbound bytes are split on '\n', decoded
// with a lossy charset decoder and delivered by a background reader on the
// channel returned by Lines.
//
// The reader is bound to the session lifetime: Close cancels it and waits
// for it to exit before returning, so a closed session never produces lines.
// Dial opens the port without starting the reader; StartReader starts it
// later. Open does both.
//
// The package has no dependencies on the rest of the module: ports are
// reached through the Opener and Port interfaces, diagnostics through Logger.
//
// Example Usage:
//
//	sess, err := linkport.Open(opener, "COM3", linkport.Config{})
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	if err := sess.WriteLine("CAL"); err != nil {
//	    return err
//	}
//	for line := range sess.Lines() {
//	    fmt.Println(line)
//	}
package linkport
