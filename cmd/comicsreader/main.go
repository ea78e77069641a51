package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"comicsreader/pkg/album"
	"comicsreader/pkg/archive"
	"comicsreader/pkg/config"
	"comicsreader/pkg/env"
	"comicsreader/pkg/logger"
	"comicsreader/pkg/paths"
	"comicsreader/pkg/persistence"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// .env is optional; the process environment is used otherwise
	_ = godotenv.Load()

	// config.Load logs, so start at the env level and re-init once the config is known
	logger.Init(env.LogLevel())

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	if cfg.LogToFile {
		if err := logger.EnableFile(); err != nil {
			logger.Warn("Failed to enable file logging", "err", err)
		}
	}

	code := run(os.Args[1:], cfg, afero.NewOsFs(), os.Stdout)
	logger.Close()
	os.Exit(code)
}

type app struct {
	cfg    *config.Config
	fs     afero.Fs
	reader *archive.Reader
	out    io.Writer
}

func run(args []string, cfg *config.Config, fsys afero.Fs, out io.Writer) int {
	if len(args) < 1 {
		printUsage(out)
		return 2
	}

	a := &app{
		cfg: cfg,
		fs:  fsys,
		reader: archive.New(
			archive.WithFs(fsys),
			archive.WithMaxEntrySize(cfg.MaxEntrySize),
		),
		out: out,
	}

	var err error
	switch args[0] {
	case "list":
		err = a.list(args[1:])
	case "extract":
		err = a.extract(args[1:])
	case "pages":
		err = a.pages(args[1:])
	case "read":
		err = a.read(args[1:])
	case "validate":
		err = a.validate(args[1:])
	case "version":
		fmt.Fprintf(out, "comicsreader %s\n", Version)
		fmt.Fprintf(out, "archive backend %s\n", archive.FormatVersion())
		return 0
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(out, "Unknown command: %s\n\n", args[0])
		printUsage(out)
		return 2
	}

	if err != nil {
		if errors.Is(err, errUsage) {
			printUsage(out)
			return 2
		}
		logger.Error("Command failed", "command", args[0], "code", archive.CodeOf(err), "err", err)
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func (a *app) list(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	names, err := a.reader.List(args[0])
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

func (a *app) extract(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage
	}
	data, err := a.reader.Extract(args[0], args[1])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		_, err = a.out.Write(data)
		return err
	}

	dst := args[2]
	if dir := filepath.Dir(dst); dir != "." {
		if err := a.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(a.fs, dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	logger.Info("Extracted entry", "archive", args[0], "entry", args[1], "out", dst, "bytes", len(data))
	return nil
}

func (a *app) pages(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	lib, err := album.NewLibrary(a.reader, a.cfg.CacheEntries, a.cfg.ImageExtensions)
	if err != nil {
		return err
	}
	al, err := lib.Open(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "# %s (%d pages)\n", al.Title(), al.Len())
	for i, p := range al.Pages() {
		fmt.Fprintf(a.out, "%4d  %s\n", i+1, p)
	}
	return nil
}

func (a *app) read(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return errUsage
	}
	lib, err := album.NewLibrary(a.reader, a.cfg.CacheEntries, a.cfg.ImageExtensions)
	if err != nil {
		return err
	}
	al, err := lib.Open(args[0])
	if err != nil {
		return err
	}

	state, err := persistence.NewManager(a.fs, paths.GetDataDir())
	if err != nil {
		return err
	}
	marks := persistence.NewBookmarks(state)

	page := 0
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page number %q", args[1])
		}
		page = n - 1
	} else if m, ok, err := marks.Get(al.Path()); err != nil {
		logger.Warn("Failed to read bookmark", "album", al.Path(), "err", err)
	} else if ok && m.Page < al.Len() {
		page = m.Page
	}

	data, err := al.Page(page)
	if err != nil {
		return err
	}

	if len(args) == 3 {
		if err := afero.WriteFile(a.fs, args[2], data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[2], err)
		}
	} else if _, err := a.out.Write(data); err != nil {
		return err
	}

	if err := marks.Set(al.Path(), page, al.Len()); err != nil {
		logger.Warn("Failed to save bookmark", "album", al.Path(), "err", err)
	}
	logger.Info("Read page", "album", al.Title(), "page", page+1, "pages", al.Len())
	return nil
}

func (a *app) validate(args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	invalid := 0
	for _, p := range args {
		format, err := archive.SniffFile(a.fs, p)
		switch {
		case err != nil:
			fmt.Fprintf(a.out, "invalid  %s: %v\n", p, err)
			invalid++
		case !archive.IsValid(a.fs, p):
			fmt.Fprintf(a.out, "invalid  %s\n", p)
			invalid++
		default:
			fmt.Fprintf(a.out, "%-7s  %s\n", format, p)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d files are not readable archives", invalid, len(args))
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: comicsreader <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list <archive>                     List file entries in archive order")
	fmt.Fprintln(w, "  extract <archive> <entry> [out]    Extract one entry to out or stdout")
	fmt.Fprintln(w, "  pages <archive>                    List image pages in reading order")
	fmt.Fprintln(w, "  read <archive> [page] [out]        Extract a page, resuming from the bookmark")
	fmt.Fprintln(w, "  validate <archive>...              Check files are readable archives")
	fmt.Fprintln(w, "  version                            Print version information")
}
