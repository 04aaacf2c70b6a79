package db

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sharkins95/sqlalchemy-challenge/internal/metrics"
)

// instrumentedConnector opens sqlite3 connections that record a span and a
// duration sample per statement. Statements are logged when logger is set.
type instrumentedConnector struct {
	dsn    string
	logger *slog.Logger
	tracer trace.Tracer
}

type instrumentedConn struct {
	conn   driver.Conn
	logger *slog.Logger
	tracer trace.Tracer
}

type instrumentedStmt struct {
	stmt   driver.Stmt
	query  string
	logger *slog.Logger
	tracer trace.Tracer
}

// NewInstrumentedConnector returns a driver.Connector for sql.OpenDB. A nil
// logger disables statement logging; a nil tracer records no spans.
func NewInstrumentedConnector(dsn string, logger *slog.Logger, tracer trace.Tracer) (driver.Connector, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite3: empty dsn")
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &instrumentedConnector{dsn: dsn, logger: logger, tracer: tracer}, nil
}

func (c *instrumentedConnector) Driver() driver.Driver {
	return &instrumentedDriver{}
}

func (c *instrumentedConnector) Connect(ctx context.Context) (driver.Conn, error) {
	underlying := &sqlite3.SQLiteDriver{}
	conn, err := underlying.Open(c.dsn)
	if err != nil {
		return nil, err
	}
	return &instrumentedConn{conn: conn, logger: c.logger, tracer: c.tracer}, nil
}

type instrumentedDriver struct{}

func (d *instrumentedDriver) Open(name string) (driver.Conn, error) {
	return nil, fmt.Errorf("sqlite3-instrumented: use sql.OpenDB(NewInstrumentedConnector(...)) instead of sql.Open")
}

func (c *instrumentedConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return c.wrap(stmt, query), nil
}

func (c *instrumentedConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if prep, ok := c.conn.(driver.ConnPrepareContext); ok {
		stmt, err := prep.PrepareContext(ctx, query)
		if err != nil {
			return nil, err
		}
		return c.wrap(stmt, query), nil
	}
	return c.Prepare(query)
}

func (c *instrumentedConn) wrap(stmt driver.Stmt, query string) *instrumentedStmt {
	return &instrumentedStmt{stmt: stmt, query: query, logger: c.logger, tracer: c.tracer}
}

func (c *instrumentedConn) Close() error {
	return c.conn.Close()
}

func (c *instrumentedConn) Begin() (driver.Tx, error) {
	//nolint:staticcheck // SA1019 – required when underlying conn does not implement ConnBeginTx
	return c.conn.Begin()
}

func (c *instrumentedConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if beginTx, ok := c.conn.(driver.ConnBeginTx); ok {
		return beginTx.BeginTx(ctx, opts)
	}
	//nolint:staticcheck // SA1019 – fallback when underlying conn does not implement ConnBeginTx
	return c.conn.Begin()
}

func (s *instrumentedStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.logQuery("exec", args)
	start := time.Now()
	//nolint:staticcheck // SA1019 – required when underlying stmt does not implement StmtExecContext
	res, err := s.stmt.Exec(args)
	observe("exec", start, err)
	return res, err
}

func (s *instrumentedStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	s.logQuery("exec", namedValuesToSlice(args))
	ctx, span := s.startSpan(ctx, "exec")
	defer span.End()

	start := time.Now()
	var (
		res driver.Result
		err error
	)
	if execCtx, ok := s.stmt.(driver.StmtExecContext); ok {
		res, err = execCtx.ExecContext(ctx, args)
	} else {
		//nolint:staticcheck // SA1019 – fallback when underlying stmt does not implement StmtExecContext
		res, err = s.stmt.Exec(namedValuesToValues(args))
	}
	observe("exec", start, err)
	recordErr(span, err)
	return res, err
}

func (s *instrumentedStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.logQuery("query", args)
	start := time.Now()
	//nolint:staticcheck // SA1019 – required when underlying stmt does not implement StmtQueryContext
	rows, err := s.stmt.Query(args)
	observe("query", start, err)
	return rows, err
}

func (s *instrumentedStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	s.logQuery("query", namedValuesToSlice(args))
	ctx, span := s.startSpan(ctx, "query")
	defer span.End()

	start := time.Now()
	var (
		rows driver.Rows
		err  error
	)
	if queryCtx, ok := s.stmt.(driver.StmtQueryContext); ok {
		rows, err = queryCtx.QueryContext(ctx, args)
	} else {
		//nolint:staticcheck // SA1019 – fallback when underlying stmt does not implement StmtQueryContext
		rows, err = s.stmt.Query(namedValuesToValues(args))
	}
	observe("query", start, err)
	recordErr(span, err)
	return rows, err
}

func (s *instrumentedStmt) Close() error {
	return s.stmt.Close()
}

// NumInput implements driver.Stmt; -1 means unknown.
func (s *instrumentedStmt) NumInput() int {
	return s.stmt.NumInput()
}

func (s *instrumentedStmt) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "sqlite."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "sqlite"),
			attribute.String("db.operation", op),
			attribute.String("db.statement", s.query),
		),
	)
}

func (s *instrumentedStmt) logQuery(op string, args interface{}) {
	if s.logger == nil {
		return
	}
	s.logger.Debug("sql",
		"op", op,
		"sql", s.query,
		"args", args,
	)
}

func observe(op string, start time.Time, err error) {
	metrics.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DBQueryErrorsTotal.WithLabelValues(op).Inc()
	}
}

func recordErr(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func namedValuesToSlice(args []driver.NamedValue) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		if a.Name != "" {
			out[i] = a.Name + "=" + formatArg(a.Value)
		} else {
			out[i] = formatArg(a.Value)
		}
	}
	return out
}

func namedValuesToValues(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i := range args {
		out[i] = args[i].Value
	}
	return out
}

func formatArg(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
