package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/rtti-runtime/bundle"
	"github.com/wippyai/rtti-runtime/cast"
	"github.com/wippyai/rtti-runtime/config"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/registry"
	"github.com/wippyai/rtti-runtime/value"
)

func main() {
	var (
		bundleFile  = flag.String("bundle", "", "Path to descriptor bundle")
		configFile  = flag.String("config", "", "Path to YAML config (optional)")
		typeName    = flag.String("type", "", "Describe the type with this name")
		annotations = flag.String("annot", "", "List types carrying all annotations (a,b,...)")
		funcName    = flag.String("func", "", "Describe free functions with this name")
		castPair    = flag.String("cast", "", "Print the displacement between two records (from,to)")
		makeType    = flag.String("make", "", "Default-construct the named type on the configured heap")
		interactive = flag.Bool("i", false, "Interactive browser")
	)
	flag.Parse()

	if *bundleFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: rtti-inspect -bundle <file.rttb> [-config file] [-type name] [-annot a,b] [-func name] [-cast from,to] [-make name]")
		fmt.Fprintln(os.Stderr, "       rtti-inspect -bundle <file.rttb> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*bundleFile, *configFile, *typeName, *annotations, *funcName, *castPair, *makeType, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(bundleFile, configFile, typeName, annotations, funcName, castPair, makeType string, interactive bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg.Apply()

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	registry.SetLogger(logger)
	cast.SetLogger(logger)
	value.SetLogger(logger)

	reg, hdr, err := open(bundleFile, cfg, logger)
	if err != nil {
		return err
	}

	if interactive {
		return runInteractive(bundleFile, reg)
	}

	st := newStyles(term.IsTerminal(int(os.Stdout.Fd())))
	out := os.Stdout

	switch {
	case typeName != "":
		t, ok := reg.TypeByName(typeName)
		if !ok {
			return rtterrors.NotFound(rtterrors.PhaseLookup, "type", typeName)
		}
		fmt.Fprint(out, st.describeType(reg, t))

	case annotations != "":
		for _, t := range reg.TypesByAnnotations(splitList(annotations)...) {
			fmt.Fprintln(out, st.typeLine(t))
		}

	case funcName != "":
		sets, ok := reg.FunctionsByName(funcName)
		if !ok {
			return rtterrors.NotFound(rtterrors.PhaseLookup, "function", funcName)
		}
		for _, s := range sets {
			fmt.Fprint(out, st.describeOverloads(reg, s))
		}

	case castPair != "":
		from, to, err := parsePair(castPair)
		if err != nil {
			return err
		}
		d, err := staticDiff(reg, from, to)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s -> %s: %+d\n", from, to, d)

	case makeType != "":
		return makeValue(context.Background(), out, cfg, reg, makeType)

	default:
		fmt.Fprintf(out, "%s %s (%s)\n\n", st.title.Render("bundle"), bundleFile, hdr.Digest)
		for _, t := range reg.AllTypes() {
			fmt.Fprintln(out, st.typeLine(t))
		}
	}
	return nil
}

// open reads and loads a bundle into a fresh registry.
func open(path string, cfg *config.Config, logger *zap.Logger) (reg *registry.Registry, hdr bundle.Header, err error) {
	streams, hdr, err := bundle.ReadFile(path)
	if err != nil {
		return nil, hdr, fmt.Errorf("read bundle: %w", err)
	}
	logger.Debug("bundle read",
		zap.String("path", path),
		zap.Stringer("digest", hdr.Digest),
		zap.Bool("compressed", hdr.Compressed))

	reg = registry.New(cfg.RegistryOptions(logger)...)
	// Bundles carry no side-tables; closures stay unresolved.
	reg.AddModule(registry.Module{Name: path, Streams: streams, DescriptorOnly: true})

	// Collisions under the fail policy abort the load.
	defer rtterrors.Recover(&err)
	if err := reg.Load(); err != nil {
		return nil, hdr, fmt.Errorf("load bundle: %w", err)
	}
	return reg, hdr, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePair(s string) (string, string, error) {
	parts := splitList(s)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("-cast wants from,to; got %q", s)
	}
	return parts[0], parts[1], nil
}
