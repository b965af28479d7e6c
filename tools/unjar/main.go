// Package main implements unjar, a program to unpack .jar files into a directory.
// Any jar files found inside are unpacked as well, into a directory named after the
// jar (without its extension) next to it, all the way down.
package main

import (
	"os"
	"time"

	"github.com/thought-machine/unjar/src/cli"
	logger "github.com/thought-machine/unjar/src/cli/logging"
	"github.com/thought-machine/unjar/src/fs"
	"github.com/thought-machine/unjar/tools/unjar/fetch"
	"github.com/thought-machine/unjar/tools/unjar/unzip"
)

var log = logger.Log

var opts = struct {
	Usage     string
	Verbosity cli.Verbosity `short:"v" long:"verbosity" default:"warning" description:"Verbosity of output (higher number = more output, default 1 -> warnings and errors only)"`
	Into      string        `short:"o" long:"into" required:"true" description:"Directory to unpack into. Created if it doesn't exist."`
	Charset   string        `short:"c" long:"charset" default:"UTF-8" description:"Charset used to decode entry names that aren't flagged as UTF-8"`
	Suffix    string        `short:"s" long:"suffix" default:".jar" description:"Suffix of nested archives to unpack recursively"`
	MaxDepth  int           `long:"max_depth" description:"Maximum depth of nested archives to unpack. Zero means no limit."`
	Staged    bool          `long:"staged" description:"Unpack into a temporary directory first and only move files into place once everything has succeeded"`
	Timeout   time.Duration `long:"timeout" default:"5m" description:"Timeout for downloading the archive, if it's given as a URL"`
	Args      struct {
		Archive cli.Filepath `positional-arg-name:"archive" required:"true" description:"The .jar file to unpack. May be a http(s) URL, or - to read from stdin."`
	} `positional-args:"true"`
}{
	Usage: `
unjar unpacks a .jar (or any other .zip) file into a directory.

Unlike plain unzip, it descends into any jars it finds inside and unpacks those too, into a
directory with the same name as the jar minus its extension. The inner jars themselves are
left in place. Entries that would end up outside the target directory are treated as an error.
`,
}

func main() {
	cli.ParseFlagsFromArgsOrDie("unjar", &opts, os.Args)
	cli.InitLogging(opts.Verbosity)

	if err := os.MkdirAll(opts.Into, fs.DirPermissions); err != nil {
		log.Fatalf("Failed to create destination directory: %s", err)
	}
	unzipOpts := unzip.Options{
		Charset:  opts.Charset,
		Suffix:   opts.Suffix,
		MaxDepth: opts.MaxDepth,
		Staged:   opts.Staged,
	}
	archive := opts.Args.Archive.String()
	if err := extract(archive, unzipOpts); err != nil {
		log.Fatalf("Failed to unpack %s: %s", archive, err)
	}
}

func extract(archive string, unzipOpts unzip.Options) error {
	if archive == "-" {
		return unzip.ExtractStream(opts.Into, os.Stdin, unzipOpts)
	} else if !fetch.IsURL(archive) {
		return unzip.ExtractFile(opts.Into, archive, unzipOpts)
	}
	fetch.SetTimeout(opts.Timeout)
	filename, err := fetch.Download(archive, "")
	if err != nil {
		return err
	}
	cancel := cli.AtExit(func() {
		os.Remove(filename)
	})
	defer cancel()
	defer os.Remove(filename)
	return unzip.ExtractFile(opts.Into, filename, unzipOpts)
}
