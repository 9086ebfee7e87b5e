package common

// Version is the build version, overridable via ldflags:
//
//	-ldflags "-X github.com/SynTaxOp/Stonks/internal/common.Version=1.2.3"
var Version = "dev"
