package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"

	"github.com/milk9111/mapfab/chr"
	"github.com/milk9111/mapfab/clipboard"
	"github.com/milk9111/mapfab/config"
	"github.com/milk9111/mapfab/geom"
	"github.com/milk9111/mapfab/layer"
	"github.com/milk9111/mapfab/project"
)

func main() {
	app := cli.NewApp()

	app.Name = "mapfab"
	app.Usage = "NES tile, metatile and level project tool"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"MAPFAB_CONFIG"},
			Value:   config.DefaultFile,
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "override the configured log level",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "new",
			Usage:     "Create an empty project with the configured object classes",
			ArgsUsage: "FILE",
			Action:    newProject,
		},
		{
			Name:      "convert",
			Usage:     "Convert a project between the binary and JSON formats",
			ArgsUsage: "IN OUT",
			Action:    convert,
		},
		{
			Name:      "chr",
			Usage:     "Convert a PNG or BMP image to CHR data",
			ArgsUsage: "IMAGE OUT",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "chr16", Usage: "pair tiles as 8x16 sprites"},
				&cli.BoolFlag{Name: "quantize", Usage: "reduce the image to four colors first"},
			},
			Action: convertCHR,
		},
		{
			Name:      "sheet",
			Usage:     "Render CHR data as a 128x128 PNG",
			ArgsUsage: "CHR OUT",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "project", Usage: "take colors from this project"},
				&cli.IntFlag{Name: "palette", Usage: "project palette row"},
				&cli.IntFlag{Name: "attr", Usage: "sub-palette 0-3"},
			},
			Action: sheet,
		},
		{
			Name:      "info",
			Usage:     "Summarize a project",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:      "watch",
			Usage:     "Reload CHR and collision sources as they change",
			ArgsUsage: "FILE",
			Action:    watch,
		},
		{
			Name:      "shift",
			Usage:     "Rotate a run of metatiles in a set and remap the levels using it",
			ArgsUsage: "FILE SET",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "from", Usage: "first metatile of the run"},
				&cli.IntFlag{Name: "to", Value: 255, Usage: "last metatile of the run"},
				&cli.IntFlag{Name: "num", Required: true, Usage: "places to rotate by, negative moves down"},
			},
			Action: shiftMetatiles,
		},
		{
			Name:      "copy",
			Usage:     "Copy the objects of a level to the system clipboard",
			ArgsUsage: "FILE LEVEL",
			Action:    copyObjects,
		},
		{
			Name:      "paste",
			Usage:     "Paste objects from the system clipboard into a level and save",
			ArgsUsage: "FILE LEVEL",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "x", Usage: "paste position"},
				&cli.IntFlag{Name: "y", Usage: "paste position"},
			},
			Action: pasteObjects,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads the configuration and logger. A missing default config file is
// not an error.
func setup(c *cli.Context) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || c.IsSet("config") {
			return cfg, nil, cli.Exit(err, 1)
		}
		cfg = config.Default()
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return cfg, nil, cli.Exit(err, 1)
	}
	return cfg, logger, nil
}

func open(c *cli.Context, path string) (*project.Document, config.Config, *logrus.Logger, error) {
	cfg, logger, err := setup(c)
	if err != nil {
		return nil, cfg, nil, err
	}
	d, err := project.Open(path, project.WithLogger(logger), project.WithQuantize(cfg.Quantize))
	if err != nil {
		return nil, cfg, nil, cli.Exit(err, 1)
	}
	return d, cfg, logger, nil
}

func needArgs(c *cli.Context, n int) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
}

func newProject(c *cli.Context) error {
	needArgs(c, 1)
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	d := project.New(project.WithLogger(logger))
	defer d.Close()

	if err := cfg.ApplyClasses(d); err != nil {
		return cli.Exit(err, 1)
	}
	if err := d.Save(c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func convert(c *cli.Context) error {
	needArgs(c, 2)
	d, _, _, err := open(c, c.Args().Get(0))
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Save(c.Args().Get(1)); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func convertCHR(c *cli.Context) error {
	needArgs(c, 2)
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	chr16 := cfg.CHR16
	if c.IsSet("chr16") {
		chr16 = c.Bool("chr16")
	}
	quantize := cfg.Quantize
	if c.IsSet("quantize") {
		quantize = c.Bool("quantize")
	}

	in := c.Args().Get(0)
	f, err := os.Open(in)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return cli.Exit(fmt.Errorf("decode %s: %w", in, err), 1)
	}
	if quantize {
		img = chr.Quantize(img)
	}
	data, err := chr.FromImage(img, chr16)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := os.WriteFile(c.Args().Get(1), data, 0o644); err != nil {
		return cli.Exit(err, 1)
	}
	logger.WithFields(logrus.Fields{"tiles": len(data) / chr.TileBytes, "chr16": chr16}).Info("converted")
	return nil
}

func sheet(c *cli.Context) error {
	needArgs(c, 2)
	pal := chr.Greyscale
	if path := c.String("project"); path != "" {
		d, _, _, err := open(c, path)
		if err != nil {
			return err
		}
		pal = d.PaletteFor(c.Int("palette"))
		d.Close()
	}

	data, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	out, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer out.Close()

	if err := png.Encode(out, chr.Sheet(data, pal, c.Int("attr"))); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func info(c *cli.Context) error {
	needArgs(c, 1)
	d, _, _, err := open(c, c.Args().First())
	if err != nil {
		return err
	}
	defer d.Close()

	w := c.App.Writer
	fmt.Fprintf(w, "palettes: %d\n", d.Palette.Count())
	if d.CollisionPath != "" {
		fmt.Fprintf(w, "collision: %s\n", d.CollisionPath)
	}
	for _, f := range d.CHRFiles() {
		fmt.Fprintf(w, "chr %s: %s (%d tiles)\n", f.Name, f.Path, len(f.Data)/chr.TileBytes)
	}
	for _, id := range d.MetatileSets() {
		ms, _ := d.MetatileSet(id)
		fmt.Fprintf(w, "metatile set %s: chr=%s palette=%d metatiles=%d\n", ms.Name, ms.CHRName, ms.Palette, ms.Num)
	}
	for _, id := range d.Classes() {
		cl, _ := d.Class(id)
		names := make([]string, 0, len(cl.Fields))
		for _, f := range cl.Fields {
			names = append(names, f.Name+":"+f.Type)
		}
		fmt.Fprintf(w, "class %s: %s\n", cl.Name, strings.Join(names, ", "))
	}
	for _, id := range d.Levels() {
		l, _ := d.Level(id)
		size := l.Metatiles.CanvasDimen()
		fmt.Fprintf(w, "level %s: %dx%d set=%s objects=%d\n", l.Name, size.W, size.H, l.MetatileSet, l.Objects.Len())
	}
	return nil
}

func watch(c *cli.Context) error {
	needArgs(c, 1)
	d, cfg, logger, err := open(c, c.Args().First())
	if err != nil {
		return err
	}
	defer d.Close()

	w, err := d.Watch(cfg.WatchDebounce)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer w.Close()

	logger.WithField("sources", len(d.SourcePaths())).Info("watching")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, err := d.Reload(name); err != nil {
				logger.WithError(err).WithField("path", name).Warn("reload failed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		case <-stop:
			return nil
		}
	}
}

func levelArg(c *cli.Context, d *project.Document) (project.ID, *project.Level, error) {
	name := c.Args().Get(1)
	id, l, ok := d.LevelByName(name)
	if !ok {
		return 0, nil, cli.Exit(fmt.Sprintf("no level named %q", name), 1)
	}
	return id, l, nil
}

func shiftMetatiles(c *cli.Context) error {
	needArgs(c, 2)
	path := c.Args().First()
	d, _, logger, err := open(c, path)
	if err != nil {
		return err
	}
	defer d.Close()

	name := c.Args().Get(1)
	id, _, ok := d.MetatileSetByName(name)
	if !ok {
		return cli.Exit(fmt.Sprintf("no metatile set named %q", name), 1)
	}
	from, to, num := c.Int("from"), c.Int("to"), c.Int("num")
	if !d.ShiftMetatiles(id, from, to, num) {
		return cli.Exit(fmt.Sprintf("nothing to shift in %d..%d by %d", from, to, num), 1)
	}
	if err := d.Save(filepath.Clean(path)); err != nil {
		return cli.Exit(err, 1)
	}
	logger.WithFields(logrus.Fields{"set": name, "from": from, "to": to, "num": num}).Info("shifted")
	return nil
}

func copyObjects(c *cli.Context) error {
	needArgs(c, 2)
	d, _, logger, err := open(c, c.Args().First())
	if err != nil {
		return err
	}
	defer d.Close()

	id, l, err := levelArg(c, d)
	if err != nil {
		return err
	}
	l.Objects.SelectAll(true)
	p, ok := d.CopyObjects(id, false)
	if !ok {
		return cli.Exit("level has no objects", 1)
	}

	sys, err := clipboard.NewSystem()
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := clipboard.Copy(sys, p); err != nil {
		return cli.Exit(err, 1)
	}
	logger.WithField("objects", len(p.Objects)).Info("copied")
	return nil
}

func pasteObjects(c *cli.Context) error {
	needArgs(c, 2)
	path := c.Args().First()
	d, _, logger, err := open(c, path)
	if err != nil {
		return err
	}
	defer d.Close()

	id, _, err := levelArg(c, d)
	if err != nil {
		return err
	}
	sys, err := clipboard.NewSystem()
	if err != nil {
		return cli.Exit(err, 1)
	}
	p, err := clipboard.Paste(sys)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if p.Kind != layer.KindObjects {
		return cli.Exit(fmt.Sprintf("clipboard holds %s, not objects", p.Kind), 1)
	}
	if !d.PasteObjects(id, p, geom.Coord{X: c.Int("x"), Y: c.Int("y")}) {
		return cli.Exit("nothing to paste", 1)
	}
	if err := d.Save(filepath.Clean(path)); err != nil {
		return cli.Exit(err, 1)
	}
	logger.WithField("objects", len(p.Objects)).Info("pasted")
	return nil
}
