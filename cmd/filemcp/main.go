// Command filemcp runs the MCP file server: six file tools advertised over
// SSE, streamable HTTP, or stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/wilhg/filemcp/pkg/auditstore"
	"github.com/wilhg/filemcp/pkg/httpserver"
	"github.com/wilhg/filemcp/pkg/logging"
	"github.com/wilhg/filemcp/pkg/mcpserver"
	"github.com/wilhg/filemcp/pkg/otel"
	"github.com/wilhg/filemcp/pkg/tool"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	var (
		showVersion bool
		addr        string
		stdio       bool
		auditDSN    string
		workDir     string
		traceStdout bool
	)

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.StringVar(&addr, "addr", getEnv("FILEMCP_ADDR", ":8000"), "http listen address")
	flag.BoolVar(&stdio, "stdio", false, "serve a single MCP session over stdin/stdout instead of HTTP")
	flag.StringVar(&auditDSN, "audit-db", os.Getenv("FILEMCP_AUDIT_DB"), "sqlite DSN for the invocation audit log, e.g. sqlite:file:audit.sqlite (empty disables)")
	flag.StringVar(&workDir, "workdir", os.Getenv("FILEMCP_WORKDIR"), "working directory that relative tool paths resolve against (empty keeps the process cwd)")
	flag.BoolVar(&traceStdout, "trace-stdout", false, "export traces to stdout")
	flag.Parse()

	if showVersion {
		fmt.Printf("filemcp %s (commit=%s, date=%s)\n", version, commit, date)
		return
	}

	logging.Init(slog.LevelInfo, os.Stderr)
	log := logging.GetLogger()

	if workDir != "" {
		if err := os.Chdir(workDir); err != nil {
			log.Error("failed to change working directory", "dir", workDir, "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Init(ctx, otel.Config{
		ServiceName:    "filemcp",
		ServiceVersion: version,
		UseStdout:      traceStdout,
	})
	if err != nil {
		log.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdown(context.Background()) }()

	var (
		audit *auditstore.Store
		opts  []tool.Option
	)
	if auditDSN != "" {
		audit, err = auditstore.Open(ctx, auditDSN)
		if err != nil {
			log.Error("failed to open audit store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = audit.Close() }()
		if err := audit.Migrate(ctx); err != nil {
			log.Error("failed to migrate audit store", "error", err)
			os.Exit(1)
		}
		opts = append(opts, tool.WithAudit(audit))
	}

	dispatcher := tool.NewDispatcher(afero.NewOsFs(), opts...)
	mcpSrv := mcpserver.New(dispatcher, version)

	if stdio {
		log.Info("starting MCP file server (stdio mode)")
		if err := mcpSrv.RunStdio(ctx); err != nil && ctx.Err() == nil {
			log.Error("stdio session failed", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := httpserver.New(httpserver.Config{Addr: addr, Version: version}, mcpSrv, audit)
	log.Info("starting MCP file server",
		"addr", addr,
		"sse_endpoint", "/sse",
		"mcp_endpoint", "/mcp",
		"health_endpoint", "/healthz",
	)
	if err := srv.Serve(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func getEnv(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
