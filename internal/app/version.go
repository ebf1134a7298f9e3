package app

// Version is stamped into the tag file's program pseudo-tags.
const Version = "0.2.0"
