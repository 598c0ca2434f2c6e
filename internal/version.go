package internal

// Version is the txcv release version
const Version = "0.3.0"
