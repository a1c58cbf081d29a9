// Package graphql serves the read side of the change event stream and the
// queue counters over GraphQL, next to the REST operator endpoints.
package graphql

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	json "github.com/goccy/go-json"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/transport/graphql/dataloader"
)

//go:embed schema.graphql
var schemaSDL string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})

type eventLister interface {
	List(ctx context.Context, f domain.EventFilter) ([]domain.ChangeEvent, error)
}

type queueStats interface {
	Stats(ctx context.Context) (domain.JobStats, error)
}

type tenantRepo interface {
	GetMany(ctx context.Context, tenants []string) ([]domain.Tenant, error)
}

// Deps groups what the GraphQL endpoint reads from.
type Deps struct {
	Events  eventLister
	Queue   queueStats
	Tenants tenantRepo
}

// NewHandler returns the GraphQL endpoint. Queries run after the operation
// has been parsed and validated against schema.graphql.
func NewHandler(deps Deps, logger *slog.Logger) http.Handler {
	log := logger.With("handler", "graphql")
	presenter := NewErrorPresenter(log)

	srv := handler.New(&executableSchema{
		resolver:  &resolver{events: deps.Events, queue: deps.Queue},
		presenter: presenter,
	})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.SetErrorPresenter(presenter)

	return dataloader.Middleware(&dataloader.Repos{Tenant: deps.Tenants})(srv)
}

// executableSchema resolves operations directly from the collected field
// sets. Complexity comes from the embedded interface and is never called:
// no complexity limit extension is installed.
type executableSchema struct {
	graphql.ExecutableSchema

	resolver  *resolver
	presenter graphql.ErrorPresenterFunc
}

func (s *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (s *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	if opCtx.Operation.Operation != ast.Query {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}

	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		data, err := s.query(ctx, opCtx)
		if err != nil {
			return &graphql.Response{
				Data:   []byte("null"),
				Errors: gqlerror.List{s.presenter(ctx, err)},
			}
		}
		return &graphql.Response{Data: data}
	}
}

func (s *executableSchema) query(ctx context.Context, opCtx *graphql.OperationContext) ([]byte, error) {
	fields := graphql.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{"Query"})

	out := make(object, 0, len(fields))
	for _, f := range fields {
		var (
			v   any
			err error
		)
		switch f.Name {
		case "__typename":
			v = "Query"
		case "changeEvents":
			v, err = s.resolver.changeEvents(ctx, opCtx, f)
		case "queueStats":
			v, err = s.resolver.queueStats(ctx, opCtx, f)
		default:
			err = fmt.Errorf("field %q is not supported", f.Name)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, entry{key: f.Alias, val: v})
	}

	return json.Marshal(out)
}
