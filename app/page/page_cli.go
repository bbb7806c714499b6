package pagecli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/chroma/quick"
	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v2"

	appbase "github.com/pagetools/yamlpage/app/base"
	"github.com/pagetools/yamlpage/app/base/util"
	"github.com/pagetools/yamlpage/pkg/backend"
	"github.com/pagetools/yamlpage/pkg/codec"
	"github.com/pagetools/yamlpage/pkg/config"
	"github.com/pagetools/yamlpage/pkg/filter"
	"github.com/pagetools/yamlpage/pkg/logging"
	"github.com/pagetools/yamlpage/pkg/store"
	"github.com/pagetools/yamlpage/ypapi"
)

func init() {
	appbase.App.Commands = append(appbase.App.Commands,
		putCmdDef, getCmdDef, existsCmdDef, lsCmdDef, pathCmdDef)
}

// storeFlags are shared by every command; they mirror store.Config.
var storeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Usage:   "Base directory (or s3 prefix) for all stored pages",
		Value:   ".",
		EnvVars: []string{config.EnvRoot},
	},
	&cli.StringFlag{
		Name:    "backend",
		Aliases: []string{"b"},
		Usage:   "Path mapping strategy: single, multi, or s3",
		Value:   string(backend.KindSingleFolder),
		EnvVars: []string{config.EnvBackend},
	},
	&cli.StringFlag{
		Name:    "extension",
		Usage:   "File extension appended to derived paths",
		Value:   "yaml",
		EnvVars: []string{config.EnvExtension},
	},
	&cli.StringFlag{
		Name:    "delimiter",
		Usage:   "Separator substitution character (single backend only)",
		Value:   backend.DefaultDelimiter,
		EnvVars: []string{config.EnvDelimiter},
	},
	&cli.StringSliceFlag{
		Name:  "filters",
		Usage: "Built-in filter tags to enable (md, upper, lower, trim)",
	},
	&cli.StringFlag{
		Name:    "s3.bucket",
		Usage:   "Bucket for the s3 backend",
		EnvVars: []string{config.EnvS3Bucket},
	},
	&cli.StringFlag{
		Name:    "s3.region",
		Usage:   "Region for the s3 backend",
		EnvVars: []string{config.EnvS3Region},
	},
	&cli.StringFlag{
		Name:    "s3.endpoint",
		Usage:   "Endpoint override for s3-compatible services",
		EnvVars: []string{config.EnvS3Endpoint},
	},
	&cli.StringFlag{
		Name:    "s3.prefix",
		Usage:   "Key prefix for the s3 backend",
		EnvVars: []string{config.EnvS3Prefix},
	},
}

var standardMiddleware = []func(cli.ActionFunc) cli.ActionFunc{
	util.CmdMiddlewareLogging,
	util.CmdMiddlewareTracingConfig,
	util.CmdMiddlewareTracingSpan,
}

var putCmdDef = &cli.Command{
	Name:      "put",
	Usage:     "Store a page under a key",
	ArgsUsage: "<key>",
	Description: heredoc.Doc(`
		Reads a yaml document from stdin (or --input) and stores it under
		the given key.  Mapping input is re-encoded deterministically:
		field order is preserved as given, multi-line strings become
		literal blocks.  Existing content for the key is overwritten.
	`),
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:      "input",
			Aliases:   []string{"i"},
			Usage:     "Read the document from a file instead of stdin",
			TakesFile: true,
		},
	}, storeFlags...),
	Action: util.ChainCmdMiddleware(cmdPut, standardMiddleware...),
}

var getCmdDef = &cli.Command{
	Name:      "get",
	Usage:     "Print the page stored under a key",
	ArgsUsage: "<key>",
	Description: heredoc.Doc(`
		Loads the page, applies any enabled read-time filters, and prints
		it as canonical yaml.  A key with no stored page is an error for
		the CLI even though the library reports it as a plain absence.
	`),
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "highlight",
			Usage: "Syntax-highlight the yaml output for the terminal",
		},
		&cli.StringFlag{
			Name:  "render",
			Usage: "Render a single (markdown) field to the terminal instead of printing yaml",
		},
	}, storeFlags...),
	Action: util.ChainCmdMiddleware(cmdGet, standardMiddleware...),
}

var existsCmdDef = &cli.Command{
	Name:      "exists",
	Usage:     "Report whether a page is stored under a key",
	ArgsUsage: "<key>",
	Flags:     storeFlags,
	Action:    util.ChainCmdMiddleware(cmdExists, standardMiddleware...),
}

var lsCmdDef = &cli.Command{
	Name:   "ls",
	Usage:  "List the keys of all stored pages",
	Flags:  storeFlags,
	Action: util.ChainCmdMiddleware(cmdLs, standardMiddleware...),
}

var pathCmdDef = &cli.Command{
	Name:      "path",
	Usage:     "Print the physical path a key maps to",
	ArgsUsage: "<key>",
	Flags:     storeFlags,
	Action:    util.ChainCmdMiddleware(cmdPath, standardMiddleware...),
}

// storeFromCLI builds a store from the shared flags.
//
// Errors:
//
//    - yamlpage-error-invalid -- when a flag value is not recognized
//    - yamlpage-error-initialization -- when the backend cannot be constructed
func storeFromCLI(c *cli.Context) (*store.Store, error) {
	filters := filter.Registry{}
	builtin := filter.Builtin()
	for _, tag := range c.StringSlice("filters") {
		fn, ok := builtin[tag]
		if !ok {
			return nil, ypapi.ErrorInvalid("no built-in filter with this tag",
				[2]string{"tag", tag})
		}
		filters[tag] = fn
	}
	return store.New(c.Context, store.Config{
		RootDir:   c.String("root"),
		Backend:   backend.Kind(c.String("backend")),
		Extension: c.String("extension"),
		Delimiter: c.String("delimiter"),
		Filters:   filters,
		S3: backend.S3Config{
			Bucket:   c.String("s3.bucket"),
			Region:   c.String("s3.region"),
			Endpoint: c.String("s3.endpoint"),
			Prefix:   c.String("s3.prefix"),
		},
	})
}

func keyArg(c *cli.Context) (string, error) {
	if c.Args().Len() != 1 {
		return "", ypapi.ErrorInvalid(fmt.Sprintf("%s requires exactly one key argument", c.Command.Name))
	}
	return c.Args().First(), nil
}

func cmdPut(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}
	s, err := storeFromCLI(c)
	if err != nil {
		return err
	}

	var text []byte
	if fileName := c.String("input"); fileName != "" {
		text, err = os.ReadFile(fileName)
		if err != nil {
			return ypapi.ErrorIo("cannot read input file", fileName, err)
		}
	} else {
		text, err = io.ReadAll(c.App.Reader)
		if err != nil {
			return ypapi.ErrorIo("cannot read document from stdin", "-", err)
		}
	}
	data, err := codec.Decode(text)
	if err != nil {
		return err
	}

	if err := s.Put(c.Context, key, data); err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	logger.Debug("put", "wrote %s", s.PathFor(key))
	return nil
}

func cmdGet(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}
	s, err := storeFromCLI(c)
	if err != nil {
		return err
	}

	data, err := s.Get(c.Context, key)
	if err != nil {
		return err
	}
	if data == nil {
		return ypapi.ErrorMissing(key)
	}

	if fieldName := c.String("render"); fieldName != "" {
		return renderField(c, data, fieldName)
	}

	logger := logging.Ctx(c.Context)
	if c.Bool("json") {
		// ypapi.Document marshals itself in field order
		serial, err := json.Marshal(data)
		if err != nil {
			return ypapi.ErrorSerialization("cannot render page as json", err)
		}
		logger.Out("%s", serial)
		return nil
	}

	serial, err := codec.Encode(data)
	if err != nil {
		return err
	}
	if c.Bool("highlight") {
		if err := quick.Highlight(c.App.Writer, string(serial), "yaml", "terminal256", "monokai"); err != nil {
			return ypapi.ErrorInternal("highlighting failed", err)
		}
		return nil
	}
	logger.OutRaw(string(serial))
	return nil
}

// renderField renders one markdown field of the page for the terminal.
//
// Errors:
//
//    - yamlpage-error-invalid -- when the field is missing or not a string
//    - yamlpage-error-internal -- when the renderer fails
func renderField(c *cli.Context, data interface{}, fieldName string) error {
	doc, ok := data.(ypapi.Document)
	if !ok {
		return ypapi.ErrorInvalid("page is not a mapping; nothing to render")
	}
	value, ok := doc.Value(fieldName).(string)
	if !ok {
		return ypapi.ErrorInvalid("no string field with this name",
			[2]string{"field", fieldName})
	}
	rendered, err := glamour.Render(value, "auto")
	if err != nil {
		return ypapi.ErrorInternal("markdown rendering failed", err)
	}
	logging.Ctx(c.Context).OutRaw(rendered)
	return nil
}

func cmdExists(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}
	s, err := storeFromCLI(c)
	if err != nil {
		return err
	}
	logging.Ctx(c.Context).Out("%t", s.Exists(c.Context, key))
	return nil
}

func cmdLs(c *cli.Context) error {
	s, err := storeFromCLI(c)
	if err != nil {
		return err
	}
	keys, err := s.List(c.Context)
	if err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	for _, key := range keys {
		logger.Out("%s", key)
	}
	return nil
}

func cmdPath(c *cli.Context) error {
	key, err := keyArg(c)
	if err != nil {
		return err
	}
	s, err := storeFromCLI(c)
	if err != nil {
		return err
	}
	logging.Ctx(c.Context).Out("%s", s.PathFor(key))
	return nil
}

