package dreamjournal

// Version is the current dreamjournal release.
const Version = "0.1.0"
