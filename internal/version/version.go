// ABOUTME: Build version information
// ABOUTME: Overridable at link time with -ldflags "-X"
package version

// Version is the obsctl release
var Version = "0.1.0"

// Product is the program name shown in logs and -version output
const Product = "obsctl"
