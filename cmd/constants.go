package cmd

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "solcpipe.json"

// DefaultServeAddress is the address the serve command listens on if none is provided.
const DefaultServeAddress = "localhost:8000"
