package app

// Name is the binary name used in usage text and log lines.
const Name = "powertun"
