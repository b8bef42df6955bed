// Package graph exposes the services as a GraphQL schema. Every top-level
// field comes from an operation table entry carrying its authorization
// requirement, and is resolved through authz.Guard.
package graph

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/authz"
	"github.com/baharkarakas/unitrack/internal/metrics"
	"github.com/baharkarakas/unitrack/internal/services"
	"github.com/baharkarakas/unitrack/internal/telemetry"
)

type Deps struct {
	Users      *services.UserService
	Categories *services.CategoryService
	Projects   *services.ProjectService
	Tasks      *services.TaskService
	Stats      *services.StatsService
	Chat       *services.ChatService
}

type resolveFn func(ctx context.Context, id auth.Identity, a args) (any, error)

type operation struct {
	name    string
	req     authz.Requirement
	typ     graphql.Output
	args    graphql.FieldConfigArgument
	resolve resolveFn
}

func (op operation) field() *graphql.Field {
	return &graphql.Field{
		Name:        op.name,
		Type:        op.typ,
		Args:        op.args,
		Description: "requires " + op.req.String(),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			ctx, span := telemetry.Tracer().Start(p.Context, "graphql."+op.name)
			defer span.End()
			span.SetAttributes(attribute.String("graphql.requirement", op.req.String()))

			guarded := authz.Guard(op.req, func(ctx context.Context, id auth.Identity) (any, error) {
				return op.resolve(ctx, id, args(p.Args))
			})
			out, err := guarded(ctx)
			if err != nil {
				metrics.OperationsTotal.WithLabelValues(op.name, "error").Inc()
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, publicError(ctx, err)
			}
			metrics.OperationsTotal.WithLabelValues(op.name, "ok").Inc()
			return out, nil
		},
	}
}

func fields(ops []operation) (graphql.Fields, error) {
	out := make(graphql.Fields, len(ops))
	for _, op := range ops {
		if _, dup := out[op.name]; dup {
			return nil, fmt.Errorf("duplicate operation %q", op.name)
		}
		out[op.name] = op.field()
	}
	return out, nil
}

// NewSchema assembles Query and Mutation from the operation tables.
func NewSchema(d Deps) (graphql.Schema, error) {
	t := newTypes(d)

	queryFields, err := fields(queries(d, t))
	if err != nil {
		return graphql.Schema{}, err
	}
	mutationFields, err := fields(mutations(d, t))
	if err != nil {
		return graphql.Schema{}, err
	}
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: queryFields}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: mutationFields}),
	})
}
