package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/authz"
	"github.com/baharkarakas/unitrack/internal/models"
	"github.com/baharkarakas/unitrack/internal/services"
)

var (
	admin   = authz.Role(models.RoleAdmin)
	student = authz.Role(models.RoleStudent)
)

func arg(t graphql.Input) *graphql.ArgumentConfig { return &graphql.ArgumentConfig{Type: t} }

func listOf(t *graphql.Object) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

func queries(d Deps, t *types) []operation {
	return []operation{
		{
			name: "me", req: authz.Public, typ: t.user,
			resolve: func(ctx context.Context, id auth.Identity, _ args) (any, error) {
				u, err := d.Users.Me(ctx, id)
				if err != nil || u == nil {
					return nil, err
				}
				return *u, nil
			},
		},
		{
			name: "dashboardStats", req: authz.Authenticated, typ: graphql.NewNonNull(t.dashboard),
			resolve: func(ctx context.Context, _ auth.Identity, _ args) (any, error) {
				return d.Stats.Dashboard(ctx)
			},
		},
		{
			name: "users", req: admin, typ: listOf(t.user),
			resolve: func(ctx context.Context, _ auth.Identity, _ args) (any, error) {
				return nonNilUsers(d.Users.List(ctx))
			},
		},
		{
			name: "getStudentOptions", req: admin, typ: listOf(t.user),
			resolve: func(ctx context.Context, _ auth.Identity, _ args) (any, error) {
				return nonNilUsers(d.Users.Students(ctx))
			},
		},
		{
			name: "getProjects", req: admin, typ: listOf(t.project),
			resolve: func(ctx context.Context, _ auth.Identity, _ args) (any, error) {
				return nonNilProjects(d.Projects.List(ctx))
			},
		},
		{
			name: "getProjectOptions", req: admin, typ: listOf(t.project),
			resolve: func(ctx context.Context, _ auth.Identity, _ args) (any, error) {
				return nonNilProjects(d.Projects.List(ctx))
			},
		},
		{
			name: "getProject", req: admin, typ: t.project,
			args: graphql.FieldConfigArgument{"id": arg(nonNullID)},
			resolve: func(ctx context.Context, _ auth.Identity, a args) (any, error) {
				return d.Projects.Get(ctx, a.str("id"))
			},
		},
		{
			name: "getMyProjects", req: student, typ: listOf(t.project),
			resolve: func(ctx context.Context, id auth.Identity, _ args) (any, error) {
				return nonNilProjects(d.Projects.ListForMember(ctx, id.UserID))
			},
		},
		{
			name: "getProjectTasks", req: admin, typ: listOf(t.task),
			args: graphql.FieldConfigArgument{"projectId": arg(nonNullID)},
			resolve: func(ctx context.Context, _ auth.Identity, a args) (any, error) {
				return nonNilTasks(d.Tasks.ListByProject(ctx, a.str("projectId")))
			},
		},
		{
			name: "getMyTasks", req: student, typ: listOf(t.task),
			resolve: func(ctx context.Context, id auth.Identity, _ args) (any, error) {
				return nonNilTasks(d.Tasks.ListAssigned(ctx, id.UserID))
			},
		},
		{
			name: "getTask", req: authz.Authenticated, typ: t.task,
			args: graphql.FieldConfigArgument{"id": arg(nonNullID)},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return d.Tasks.Get(ctx, id, a.str("id"))
			},
		},
		{
			name: "studentTaskStats", req: authz.Authenticated, typ: t.taskStats,
			args: graphql.FieldConfigArgument{"id": arg(nonNullID)},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return d.Tasks.StudentStats(ctx, id, a.str("id"))
			},
		},
		{
			name: "categories", req: authz.Authenticated, typ: listOf(t.category),
			resolve: func(ctx context.Context, _ auth.Identity, _ args) (any, error) {
				cats, err := d.Categories.List(ctx)
				return nonNil(cats), err
			},
		},
		{
			name: "getChatHistory", req: authz.Authenticated, typ: listOf(t.chatMessage),
			args: graphql.FieldConfigArgument{"receiverId": arg(nonNullID)},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				msgs, err := d.Chat.History(ctx, id.UserID, a.str("receiverId"))
				return nonNil(msgs), err
			},
		},
	}
}

func mutations(d Deps, t *types) []operation {
	projectArgs := func(required bool) graphql.FieldConfigArgument {
		title := graphql.Input(graphql.String)
		if required {
			title = nonNullString
		}
		return graphql.FieldConfigArgument{
			"title":       arg(title),
			"description": arg(graphql.String),
			"category":    arg(graphql.String),
			"status":      arg(t.status),
			"startDate":   arg(graphql.String),
			"endDate":     arg(graphql.String),
			"memberIds":   arg(graphql.NewList(nonNullID)),
		}
	}
	updateArgs := projectArgs(false)
	updateArgs["id"] = arg(nonNullID)
	for _, k := range []string{"startDate", "endDate"} {
		updateArgs[k] = &graphql.ArgumentConfig{Type: graphql.String, Description: "omit to keep, empty string to clear"}
	}

	return []operation{
		{
			name: "signUp", req: authz.Public, typ: graphql.NewNonNull(t.authPayload),
			args: graphql.FieldConfigArgument{
				"username":     arg(nonNullString),
				"password":     arg(nonNullString),
				"role":         arg(nonNullString),
				"universityId": arg(graphql.String),
			},
			resolve: func(ctx context.Context, _ auth.Identity, a args) (any, error) {
				return d.Users.SignUp(ctx, services.SignUpInput{
					Username:     a.str("username"),
					Password:     a.str("password"),
					Role:         a.str("role"),
					UniversityID: a.str("universityId"),
				})
			},
		},
		{
			name: "login", req: authz.Public, typ: graphql.NewNonNull(t.authPayload),
			args: graphql.FieldConfigArgument{
				"username": arg(nonNullString),
				"password": arg(nonNullString),
			},
			resolve: func(ctx context.Context, _ auth.Identity, a args) (any, error) {
				return d.Users.Login(ctx, a.str("username"), a.str("password"))
			},
		},
		{
			name: "createProject", req: admin, typ: graphql.NewNonNull(t.project),
			args: projectArgs(true),
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				start, err := a.date("startDate")
				if err != nil {
					return nil, err
				}
				end, err := a.date("endDate")
				if err != nil {
					return nil, err
				}
				return d.Projects.Create(ctx, id, services.ProjectInput{
					Title:       a.str("title"),
					Description: a.str("description"),
					Category:    a.str("category"),
					Status:      a.str("status"),
					StartDate:   start,
					EndDate:     end,
					MemberIDs:   a.strs("memberIds"),
				})
			},
		},
		{
			name: "updateProject", req: admin, typ: graphql.NewNonNull(t.project),
			args: updateArgs,
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				start, err := a.date("startDate")
				if err != nil {
					return nil, err
				}
				end, err := a.date("endDate")
				if err != nil {
					return nil, err
				}
				patch := services.ProjectPatch{
					Title:          a.optStr("title"),
					Description:    a.optStr("description"),
					Category:       a.optStr("category"),
					Status:         a.optStr("status"),
					StartDate:      start,
					EndDate:        end,
					ClearStartDate: a.blank("startDate"),
					ClearEndDate:   a.blank("endDate"),
				}
				if a.has("memberIds") {
					ids := a.strs("memberIds")
					patch.MemberIDs = &ids
				}
				return d.Projects.Update(ctx, id, a.str("id"), patch)
			},
		},
		{
			name: "deleteProject", req: admin, typ: nonNullInt,
			args: graphql.FieldConfigArgument{"id": arg(nonNullID)},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return d.Projects.Delete(ctx, id, a.str("id"))
			},
		},
		{
			name: "updateProjectProgress", req: student, typ: graphql.NewNonNull(t.project),
			args: graphql.FieldConfigArgument{
				"projectId": arg(nonNullID),
				"progress":  arg(nonNullInt),
			},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return d.Projects.UpdateProgress(ctx, id, a.str("projectId"), a.num("progress"))
			},
		},
		{
			name: "createTask", req: admin, typ: graphql.NewNonNull(t.task),
			args: graphql.FieldConfigArgument{
				"title":       arg(nonNullString),
				"description": arg(graphql.String),
				"projectId":   arg(nonNullID),
				"assignedTo":  arg(nonNullID),
				"status":      arg(t.status),
				"dueDate":     arg(graphql.String),
			},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				due, err := a.date("dueDate")
				if err != nil {
					return nil, err
				}
				return d.Tasks.Create(ctx, id, services.TaskInput{
					Title:       a.str("title"),
					Description: a.str("description"),
					ProjectID:   a.str("projectId"),
					AssignedTo:  a.str("assignedTo"),
					Status:      a.str("status"),
					DueDate:     due,
				})
			},
		},
		{
			name: "updateTaskStatus", req: authz.Authenticated, typ: graphql.NewNonNull(t.task),
			args: graphql.FieldConfigArgument{
				"taskId": arg(nonNullID),
				"status": arg(graphql.NewNonNull(t.status)),
			},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return d.Tasks.UpdateStatus(ctx, id, a.str("taskId"), a.str("status"))
			},
		},
		{
			name: "deleteTask", req: admin, typ: graphql.NewNonNull(graphql.Boolean),
			args: graphql.FieldConfigArgument{"id": arg(nonNullID)},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return succeeded(d.Tasks.Delete(ctx, id, a.str("id")))
			},
		},
		{
			name: "createCategory", req: admin, typ: graphql.NewNonNull(t.category),
			args: graphql.FieldConfigArgument{"name": arg(nonNullString)},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return d.Categories.Create(ctx, id, a.str("name"))
			},
		},
		{
			name: "deleteCategory", req: admin, typ: graphql.NewNonNull(graphql.Boolean),
			args: graphql.FieldConfigArgument{"id": arg(nonNullID)},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return succeeded(d.Categories.Delete(ctx, id, a.str("id")))
			},
		},
		{
			name: "sendMessage", req: authz.Authenticated, typ: graphql.NewNonNull(t.chatMessage),
			args: graphql.FieldConfigArgument{
				"receiverId": arg(nonNullID),
				"message":    arg(nonNullString),
			},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return d.Chat.Send(ctx, id.UserID, a.str("receiverId"), a.str("message"))
			},
		},
		{
			name: "markMessagesRead", req: authz.Authenticated, typ: nonNullInt,
			args: graphql.FieldConfigArgument{"senderId": arg(nonNullID)},
			resolve: func(ctx context.Context, id auth.Identity, a args) (any, error) {
				return d.Chat.MarkRead(ctx, id.UserID, a.str("senderId"))
			},
		},
	}
}

func succeeded(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return true, nil
}

// graphql-go reports a nil slice as null, which breaks non-null lists.
func nonNilUsers(us []models.User, err error) (any, error) { return nonNil(us), err }

func nonNilProjects(ps []models.Project, err error) (any, error) { return nonNil(ps), err }

func nonNilTasks(ts []models.Task, err error) (any, error) { return nonNil(ts), err }
