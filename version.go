package hob

// Version of hob. Set at build time with -ldflags "-X github.com/gadling/hob.Version=..."
var Version = "0.9.0"

// Homepage of the project
const Homepage = "https://github.com/gadling/hob"
