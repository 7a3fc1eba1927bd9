package common

// HelixVersion is the current Helix version as a string.
const HelixVersion string = "0.3.0"

// HelixFileExt is the file extension for a Helix source file.
const HelixFileExt string = ".helix"

// ProfileFileName is the name of the optional project profile file.
const ProfileFileName string = "helix.toml"
