package types

// AppName is the service name used in logs and health responses
const AppName = "herald"

// Version is embedded at build time via -ldflags
var Version = "dev"
