// pkgmeta is a CLI for declaring, validating, and registering package
// metadata.
//
// Usage:
//
//	pkgmeta validate -f package.yaml
//	pkgmeta register -f package.yaml [-site DIR] [-replace]
//	pkgmeta show NAME|PURL [-site DIR]
//	pkgmeta list [-site DIR]
//	pkgmeta remove NAME [-site DIR] [-retire]
//	pkgmeta check NAME [-index URL]
//	pkgmeta discover [-root DIR]
//	pkgmeta version
//
// Exit codes:
//   - 0: Success
//   - 1: Operation failed
//   - 2: Usage error
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/warwick-one-metre/pkgmeta/descriptor"
	"github.com/warwick-one-metre/pkgmeta/index"
	"github.com/warwick-one-metre/pkgmeta/internal/config"
	"github.com/warwick-one-metre/pkgmeta/internal/core"
	"github.com/warwick-one-metre/pkgmeta/site"
)

var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "version", "-version", "--version":
		fmt.Println(Version)
		return 0
	case "validate":
		return cmdValidate(args[1:])
	case "register":
		return cmdRegister(args[1:])
	case "show":
		return cmdShow(args[1:])
	case "list":
		return cmdList(args[1:])
	case "remove":
		return cmdRemove(args[1:])
	case "check":
		return cmdCheck(args[1:])
	case "discover":
		return cmdDiscover(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pkgmeta validate -f package.yaml")
	fmt.Fprintln(os.Stderr, "  pkgmeta register -f package.yaml [-site DIR] [-replace]")
	fmt.Fprintln(os.Stderr, "  pkgmeta show NAME|PURL [-site DIR]")
	fmt.Fprintln(os.Stderr, "  pkgmeta list [-site DIR]")
	fmt.Fprintln(os.Stderr, "  pkgmeta remove NAME [-site DIR] [-retire]")
	fmt.Fprintln(os.Stderr, "  pkgmeta check NAME [-index URL]")
	fmt.Fprintln(os.Stderr, "  pkgmeta discover [-root DIR]")
	fmt.Fprintln(os.Stderr, "  pkgmeta version")
}

func cmdValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	var file string
	fs.StringVar(&file, "file", "", "path to YAML package manifest")
	fs.StringVar(&file, "f", "", "path to YAML package manifest (shorthand)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		return 2
	}

	d, err := descriptor.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Manifest error in %s:\n  %v\n", file, err)
		return 1
	}
	if err := descriptor.Validate(d); err != nil {
		fmt.Fprintf(os.Stderr, "Validation error in %s:\n  %v\n", file, err)
		return 1
	}

	fmt.Printf("%s is valid (%s)\n", file, descriptor.PURL(d))
	return 0
}

func cmdRegister(args []string) int {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var file, siteDir string
	var replace bool
	fs.StringVar(&file, "file", "", "path to YAML package manifest")
	fs.StringVar(&file, "f", "", "path to YAML package manifest (shorthand)")
	fs.StringVar(&siteDir, "site", cfg.SiteDir, "install environment directory")
	fs.BoolVar(&replace, "replace", false, "replace an installed distribution at a different version")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var d *core.Descriptor
	if file == "" {
		// No manifest given: register the built-in descriptor.
		d = descriptor.Default()
	} else {
		var err error
		d, err = descriptor.Load(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Manifest error in %s:\n  %v\n", file, err)
			return 1
		}
	}

	env, err := site.Open(siteDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = env.Close() }()

	var opts []site.RegisterOption
	if replace {
		opts = append(opts, site.WithReplace())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	rec, err := env.Register(ctx, d, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("registered %s %s (%s)\n", rec.Name, rec.Version, rec.PURL)
	return 0
}

func cmdShow(args []string) int {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var siteDir string
	fs.StringVar(&siteDir, "site", cfg.SiteDir, "install environment directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: a distribution name or PURL is required")
		return 2
	}
	target := fs.Arg(0)

	env, err := site.Open(siteDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = env.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	var rec *core.Record
	if strings.HasPrefix(target, "pkg:") {
		rec, err = env.GetByPURL(ctx, target)
	} else {
		rec, err = env.Get(ctx, target)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	_, _ = os.Stdout.Write(site.FormatMetadata(rec))
	fmt.Printf("Installed: %s\n", rec.InstalledAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("PURL: %s\n", rec.PURL)
	if rec.Status == core.StatusRetired {
		fmt.Printf("Status: %s\n", rec.Status)
	}
	return 0
}

func cmdList(args []string) int {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var siteDir string
	fs.StringVar(&siteDir, "site", cfg.SiteDir, "install environment directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	env, err := site.Open(siteDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = env.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	records, err := env.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, rec := range records {
		fmt.Printf("%s %s\n", rec.Name, rec.Version)
	}
	return 0
}

func cmdRemove(args []string) int {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	var siteDir string
	var retire bool
	fs.StringVar(&siteDir, "site", cfg.SiteDir, "install environment directory")
	fs.BoolVar(&retire, "retire", false, "mark the distribution retired instead of deleting it")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: a distribution name is required")
		return 2
	}

	env, err := site.Open(siteDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = env.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if retire {
		if err := env.Retire(ctx, fs.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("retired %s\n", fs.Arg(0))
		return 0
	}

	if err := env.Remove(ctx, fs.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("removed %s\n", fs.Arg(0))
	return 0
}

func cmdCheck(args []string) int {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	var indexURL string
	fs.StringVar(&indexURL, "index", cfg.IndexURL, "package index URL")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: a project name is required")
		return 2
	}
	name := fs.Arg(0)

	client := index.NewClient(index.WithTimeout(cfg.Timeout))
	ix := index.NewBreaker(index.New(indexURL, client))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	available, err := ix.Available(ctx, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if available {
		fmt.Printf("%s is available\n", name)
	} else {
		fmt.Printf("%s is already taken\n", name)
	}
	return 0
}

func cmdDiscover(args []string) int {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	var root string
	fs.StringVar(&root, "root", ".", "source tree root")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	packages, err := descriptor.Discover(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, pkg := range packages {
		fmt.Println(pkg)
	}
	return 0
}
