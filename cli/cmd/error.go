package cmd

import "github.com/ardnew/coral/pkg"

var (
	ErrOpenSource  = pkg.NewError("open source file")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrNoConfig    = pkg.NewError("configuration path undefined")
)
