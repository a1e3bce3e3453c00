package main

import (
	"docql/config"
	"docql/parser"
	"docql/web"
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"strings"
)

const VERSION = "v0.1.0"

var cli struct {
	Logging string      `help:"Logging verbosity: info, debug or trace. Defaults to the level of the config file or info." short:"l" placeholder:"<level>"`
	Version VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	Parse   struct {
		Query  string            `help:"The query string." placeholder:"<query>" arg:""`
		Param  []string          `help:"Value for the next positional placeholder '?'. Can be given multiple times." short:"p" sep:"none" placeholder:"<value>"`
		Named  map[string]string `help:"Value for a named placeholder ':name'." short:"n" mapsep:"none" placeholder:"<name>=<value>"`
		Output string            `help:"Output format." enum:"text,json,mongo" short:"o" default:"text"`
	} `cmd:"" help:"Parses the given query and prints the resulting command."`
	Serve struct {
		Port   string `help:"The port to listen on." placeholder:"<port>"`
		Cert   string `help:"The certificate file for TLS." placeholder:"<cert-file>" type:"existingfile"`
		Key    string `help:"The key file for TLS." placeholder:"<key-file>" type:"existingfile"`
		Config string `help:"A config file in TOML or YAML format." short:"c" placeholder:"<config-file>" type:"existingfile"`
	} `cmd:"" help:"Starts an HTTP server parsing queries sent to '/parse'."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("docql"),
		kong.Description("A compiler for a small SQL-like query language for document databases."),
		kong.Vars{
			"version": VERSION,
		},
	)

	if cli.Logging != "" {
		setLogLevel(cli.Logging)
	} else {
		setLogLevel(config.DefaultLogging)
	}

	switch ctx.Command() {
	case "parse <query>":
		output, err := parseQuery(cli.Parse.Query, cli.Parse.Param, cli.Parse.Named, cli.Parse.Output)
		sigolo.FatalCheck(err)
		fmt.Println(output)
	case "serve":
		cfg, err := loadServerConfig(cli.Serve.Config, config.Config{
			Port:     cli.Serve.Port,
			CertFile: cli.Serve.Cert,
			KeyFile:  cli.Serve.Key,
			Logging:  cli.Logging,
		})
		sigolo.FatalCheck(err)
		setLogLevel(cfg.Logging)

		if cfg.UseTls() {
			web.StartServerTls(cfg)
		} else {
			web.StartServer(cfg)
		}
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

func setLogLevel(logging string) {
	if strings.ToLower(logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", logging)
	}
}

// loadServerConfig reads the optional config file and applies the non-empty flag values on top of it.
func loadServerConfig(configFile string, flags config.Config) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyOverrides(flags)

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseQuery parses the query and renders the command in the given output format. Parameter values from the command
// line are always strings, so "json:" and "true"/"false" are the way to pass other types.
func parseQuery(queryString string, positional []string, named map[string]string, output string) (string, error) {
	parameters := parser.Parameters{}
	for _, value := range positional {
		parameters.Positional = append(parameters.Positional, value)
	}
	if len(named) > 0 {
		parameters.Named = map[string]any{}
		for name, value := range named {
			parameters.Named[name] = value
		}
	}

	command, err := parser.ParseQueryString(queryString, parameters)
	if err != nil {
		return "", err
	}

	switch output {
	case "text":
		return command.String(), nil
	case "json":
		jsonBytes, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(command, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "Error marshalling command")
		}
		return string(jsonBytes), nil
	case "mongo":
		return command.ExtendedJSON()
	}

	return "", errors.Errorf("Unknown output format '%s'", output)
}
