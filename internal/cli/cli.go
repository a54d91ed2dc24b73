package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/nodegraph/internal/app"
	"github.com/vk/nodegraph/internal/editorlink"
	"github.com/vk/nodegraph/internal/outcache"
	"github.com/vk/nodegraph/internal/render"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const envPrefix = "NODEGRAPH"

// Execute runs the command line described by args. Usage problems are
// returned as *ExitError with code 2.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if isUsageError(err) {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return err
}

// isUsageError recognises the flag and argument errors cobra reports as
// plain errors.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "flag needs an argument", "invalid argument", "accepts ", "requires at least"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// NewRootCommand builds the command tree. Every call uses its own viper
// instance.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "nodegraph",
		Short: "Evaluate typed dataflow node graphs",
		Long: `nodegraph evaluates graphs of typed computation nodes (scalars, vectors,
widgets, text) declared in HCL files, and can serve an editing session to an
external editor over socket.io.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.StringP("output", "o", string(render.Text), "Result format. Options: 'text', 'json', 'yaml'.")
	flags.Bool("trace", false, "Write OpenTelemetry spans to stderr.")
	flags.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	_ = v.BindPFlags(flags)

	root.AddCommand(
		newEvalCommand(v, outW, errW),
		newTemplatesCommand(v, outW, errW),
		newWatchCommand(v, outW, errW),
		newServeCommand(v, outW, errW),
	)
	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return &ExitError{Code: 2, Message: "reading config file: " + err.Error()}
	}
	slog.Debug("Config file loaded.", "path", v.ConfigFileUsed())
	return nil
}

// buildConfig validates the merged settings into an app.Config.
func buildConfig(v *viper.Viper) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		LogLevel:        strings.ToLower(v.GetString("log-level")),
		LogFormat:       strings.ToLower(v.GetString("log-format")),
		Output:          render.Format(strings.ToLower(v.GetString("output"))),
		Trace:           v.GetBool("trace"),
		HealthcheckPort: v.GetInt("healthcheck-port"),
		CacheExpiration: v.GetDuration("cache-expiration"),
		WatchDebounce:   v.GetDuration("debounce"),
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}

// withApp builds the app for one command run and closes it afterwards.
func withApp(cmd *cobra.Command, v *viper.Viper, outW, errW io.Writer, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := buildConfig(v)
	if err != nil {
		return err
	}
	a, err := app.NewApp(outW, errW, cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()
	return fn(ctx, a)
}

func newEvalCommand(v *viper.Viper, outW, errW io.Writer) *cobra.Command {
	var req app.EvalRequest
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a node of a graph file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Path = args[0]
			return withApp(cmd, v, outW, errW, func(ctx context.Context, a *app.App) error {
				return a.Eval(ctx, req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.Target, "target", "t", "", "node name to evaluate (default: the file's target)")
	cmd.Flags().StringVarP(&req.Port, "port", "p", "", "output name to report (default: the node's first output)")
	return cmd
}

func newTemplatesCommand(v *viper.Viper, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the node templates by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, v, outW, errW, func(_ context.Context, a *app.App) error {
				return a.Templates()
			})
		},
	}
}

func newWatchCommand(v *viper.Viper, outW, errW io.Writer) *cobra.Command {
	var req app.EvalRequest
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-evaluate a graph file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Path = args[0]
			return withApp(cmd, v, outW, errW, func(ctx context.Context, a *app.App) error {
				return a.Watch(ctx, req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.Target, "target", "t", "", "node name to evaluate (default: the file's target)")
	cmd.Flags().StringVarP(&req.Port, "port", "p", "", "output name to report (default: the node's first output)")
	cmd.Flags().Duration("debounce", 200*time.Millisecond, "quiet period before re-evaluating")
	_ = v.BindPFlag("debounce", cmd.Flags().Lookup("debounce"))
	return cmd
}

func newServeCommand(v *viper.Viper, outW, errW io.Writer) *cobra.Command {
	var graphPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an editing session to an editor over socket.io",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url := v.GetString("editor-url")
			if url == "" {
				return &ExitError{Code: 2, Message: "serve requires --editor-url"}
			}
			editor := editorlink.DefaultConfig(url)
			editor.Namespace = v.GetString("namespace")
			editor.InsecureSkipVerify = v.GetBool("insecure-skip-verify")

			return withApp(cmd, v, outW, errW, func(ctx context.Context, a *app.App) error {
				return a.Serve(ctx, app.ServeRequest{Editor: editor, GraphPath: graphPath})
			})
		},
	}
	flags := cmd.Flags()
	flags.String("editor-url", "", "socket.io URL of the editor, e.g. http://localhost:3000/socket.io/")
	flags.String("namespace", "/", "socket.io namespace")
	flags.Bool("insecure-skip-verify", false, "skip TLS certificate verification")
	flags.Duration("cache-expiration", outcache.DefaultExpiration, "how long computed outputs are retained (0 keeps them until edited)")
	flags.StringVar(&graphPath, "graph", "", "graph file to start the session from")
	for _, name := range []string{"editor-url", "namespace", "insecure-skip-verify", "cache-expiration"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	return cmd
}
