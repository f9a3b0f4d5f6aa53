package cmd

// overridden at build time with -ldflags
var projectVersion = "dev"
