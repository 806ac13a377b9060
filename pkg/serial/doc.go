// Package serial provides the target side of the metal serial protocol.
package serial

// The protocol runs over a single byte channel between a target (the code
// under test) and a host which decodes the stream.
//
// Every value on the wire is self-delimiting: integers carry a size byte,
// strings are null-terminated and memory blocks carry an integer length.
// Reads initiated by the target are acknowledged back to the host with the
// number of bytes actually kept, so the host always knows how much of its
// data survived truncation.
//
// Each message begins with a location marker identifying the call site that
// produced it. The host maps markers back to source positions through a
// site table and never relies on strings transmitted in the stream.
//
// Producer: target
// Consumer: host
