package graph

import (
	"context"
	"log/slog"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/models"
	"github.com/baharkarakas/unitrack/internal/services"
)

// prop resolves a field straight off the parent value.
func prop[T any](t graphql.Output, get func(T) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			switch src := p.Source.(type) {
			case T:
				return get(src), nil
			case *T:
				if src != nil {
					return get(*src), nil
				}
			}
			return nil, nil
		},
	}
}

// rel resolves a field that needs another lookup.
func rel[T any](t graphql.Output, get func(context.Context, T) (any, error)) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			var src T
			switch v := p.Source.(type) {
			case T:
				src = v
			case *T:
				if v == nil {
					return nil, nil
				}
				src = *v
			default:
				return nil, nil
			}
			out, err := get(p.Context, src)
			if err != nil {
				return nil, publicError(p.Context, err)
			}
			return out, nil
		},
	}
}

// publicError hides anything that is not an apperr.Error behind a generic
// message and logs the original.
func publicError(ctx context.Context, err error) error {
	pub, internal := apperr.Public(err)
	if internal {
		slog.ErrorContext(ctx, "graphql resolver failed", "err", err)
	}
	return pub
}

func isoTime(t time.Time) any { return t.UTC().Format(time.RFC3339) }

func isoTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return isoTime(*t)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var (
	nonNullString = graphql.NewNonNull(graphql.String)
	nonNullID     = graphql.NewNonNull(graphql.ID)
	nonNullInt    = graphql.NewNonNull(graphql.Int)
)

type types struct {
	status      *graphql.Enum
	user        *graphql.Object
	category    *graphql.Object
	project     *graphql.Object
	task        *graphql.Object
	taskStats   *graphql.Object
	dashboard   *graphql.Object
	authPayload *graphql.Object
	chatMessage *graphql.Object
}

func newTypes(d Deps) *types {
	t := &types{}

	values := graphql.EnumValueConfigMap{}
	for _, st := range models.Statuses {
		values[string(st)] = &graphql.EnumValueConfig{Value: string(st)}
	}
	t.status = graphql.NewEnum(graphql.EnumConfig{Name: "Status", Values: values})
	status := func(s models.Status) any { return string(s) }

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":           prop(nonNullID, func(u models.User) any { return u.ID }),
			"username":     prop(nonNullString, func(u models.User) any { return u.Username }),
			"role":         prop(nonNullString, func(u models.User) any { return string(u.Role) }),
			"universityId": prop(graphql.String, func(u models.User) any { return optional(u.UniversityID) }),
			"createdAt":    prop(nonNullString, func(u models.User) any { return isoTime(u.CreatedAt) }),
		},
	})
	userByID := func(ctx context.Context, id string) (any, error) {
		return d.Users.Get(ctx, id)
	}

	t.category = graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":        prop(nonNullID, func(c models.Category) any { return c.ID }),
			"name":      prop(nonNullString, func(c models.Category) any { return c.Name }),
			"createdAt": prop(nonNullString, func(c models.Category) any { return isoTime(c.CreatedAt) }),
		},
	})

	t.project = graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.Fields{
			"id":          prop(nonNullID, func(p models.Project) any { return p.ID }),
			"title":       prop(nonNullString, func(p models.Project) any { return p.Title }),
			"description": prop(graphql.String, func(p models.Project) any { return optional(p.Description) }),
			"status":      prop(graphql.NewNonNull(t.status), func(p models.Project) any { return status(p.Status) }),
			"progress":    prop(nonNullInt, func(p models.Project) any { return p.Progress }),
			"startDate":   prop(graphql.String, func(p models.Project) any { return isoTimePtr(p.StartDate) }),
			"endDate":     prop(graphql.String, func(p models.Project) any { return isoTimePtr(p.EndDate) }),
			"memberIds":   prop(graphql.NewNonNull(graphql.NewList(nonNullID)), func(p models.Project) any { return nonNil(p.MemberIDs) }),
			"createdAt":   prop(nonNullString, func(p models.Project) any { return isoTime(p.CreatedAt) }),
			"updatedAt":   prop(nonNullString, func(p models.Project) any { return isoTime(p.UpdatedAt) }),
			"category": rel(t.category, func(ctx context.Context, p models.Project) (any, error) {
				return d.Categories.Get(ctx, p.CategoryID)
			}),
			"createdBy": rel(graphql.NewNonNull(t.user), func(ctx context.Context, p models.Project) (any, error) {
				return userByID(ctx, p.CreatedBy)
			}),
			"members": rel(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.user))), func(ctx context.Context, p models.Project) (any, error) {
				users, err := d.Users.GetMany(ctx, p.MemberIDs)
				return nonNil(users), err
			}),
		},
	})

	t.task = graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":          prop(nonNullID, func(k models.Task) any { return k.ID }),
			"title":       prop(nonNullString, func(k models.Task) any { return k.Title }),
			"description": prop(graphql.String, func(k models.Task) any { return optional(k.Description) }),
			"status":      prop(graphql.NewNonNull(t.status), func(k models.Task) any { return status(k.Status) }),
			"dueDate":     prop(graphql.String, func(k models.Task) any { return isoTimePtr(k.DueDate) }),
			"createdAt":   prop(nonNullString, func(k models.Task) any { return isoTime(k.CreatedAt) }),
			"updatedAt":   prop(nonNullString, func(k models.Task) any { return isoTime(k.UpdatedAt) }),
			"assignedTo": rel(graphql.NewNonNull(t.user), func(ctx context.Context, k models.Task) (any, error) {
				return userByID(ctx, k.AssignedTo)
			}),
			"project": rel(graphql.NewNonNull(t.project), func(ctx context.Context, k models.Task) (any, error) {
				return d.Projects.Get(ctx, k.ProjectID)
			}),
		},
	})

	t.taskStats = graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskStats",
		Fields: graphql.Fields{
			"assigned":  prop(nonNullInt, func(s models.TaskStats) any { return s.Assigned }),
			"completed": prop(nonNullInt, func(s models.TaskStats) any { return s.Completed }),
			"pending":   prop(nonNullInt, func(s models.TaskStats) any { return s.Pending }),
		},
	})

	t.dashboard = graphql.NewObject(graphql.ObjectConfig{
		Name: "DashboardStats",
		Fields: graphql.Fields{
			"projects":         prop(nonNullInt, func(s models.DashboardStats) any { return s.Projects }),
			"students":         prop(nonNullInt, func(s models.DashboardStats) any { return s.Students }),
			"tasks":            prop(nonNullInt, func(s models.DashboardStats) any { return s.Tasks }),
			"finishedProjects": prop(nonNullInt, func(s models.DashboardStats) any { return s.FinishedProjects }),
		},
	})

	t.authPayload = graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token":       prop(nonNullString, func(a services.AuthPayload) any { return a.Token }),
			"expiresAt":   prop(nonNullString, func(a services.AuthPayload) any { return isoTime(a.ExpiresAt) }),
			"user":        prop(graphql.NewNonNull(t.user), func(a services.AuthPayload) any { return a.User }),
			"redirectUrl": prop(nonNullString, func(a services.AuthPayload) any { return a.RedirectURL }),
		},
	})

	t.chatMessage = graphql.NewObject(graphql.ObjectConfig{
		Name: "Chat",
		Fields: graphql.Fields{
			"id":        prop(nonNullID, func(m models.ChatMessage) any { return m.ID }),
			"message":   prop(nonNullString, func(m models.ChatMessage) any { return m.Content }),
			"timestamp": prop(nonNullString, func(m models.ChatMessage) any { return isoTime(m.CreatedAt) }),
			"read":      prop(graphql.NewNonNull(graphql.Boolean), func(m models.ChatMessage) any { return m.Read }),
			"sender": rel(graphql.NewNonNull(t.user), func(ctx context.Context, m models.ChatMessage) (any, error) {
				return userByID(ctx, m.SenderID)
			}),
			"receiver": rel(graphql.NewNonNull(t.user), func(ctx context.Context, m models.ChatMessage) (any, error) {
				return userByID(ctx, m.ReceiverID)
			}),
		},
	})

	return t
}
