package apispec

import (
	"context"
	"testing"

	"github.com/aretw0/iaee/internal/validator"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func experience(t *testing.T) *domain.Experience {
	t.Helper()
	exp, err := validator.Default().ValidateJSON([]byte(`{
		"id": "api", "title": "Users API", "author": "A",
		"sections": [
			{"id": "ep", "type": "api-builder", "title": "Users", "basePath": "/v1",
			 "responseCodes": [{"code": 201, "label": "Created"}]},
			{"id": "d", "type": "decision"}
		]
	}`))
	require.NoError(t, err)
	return exp
}

func TestPath(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		names []string
	}{
		{"/users/:id", "/users/{id}", []string{"id"}},
		{"users/:id/posts/:postId", "/users/{id}/posts/{postId}", []string{"id", "postId"}},
		{"/users/{id}", "/users/{id}", []string{"id"}},
		{"/", "/", nil},
		{"/a:b", "/a:b", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, names := Path(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestBuild_MultiEndpoint(t *testing.T) {
	exp := experience(t)
	results := domain.Results{"ep": map[string]any{
		"endpoints": []any{
			map[string]any{
				"method":       "GET",
				"path":         "/users/:id",
				"description":  "Fetch one user",
				"pathParams":   map[string]any{"id": "42"},
				"queryParams":  []any{map[string]any{"key": "expand", "value": "posts"}},
				"headers":      []any{map[string]any{"key": "X-Trace", "value": "abc"}},
				"responseCode": 200,
				"responseBody": `{"id": 42, "name": "Ana", "tags": ["a"]}`,
			},
			map[string]any{
				"method":       "post",
				"path":         "users",
				"body":         `{"name": "Ana"}`,
				"responseCode": 201,
			},
			map[string]any{"method": "BREW", "path": "/coffee"},
		},
	}}

	doc, err := Build(context.Background(), exp, results)
	require.NoError(t, err)

	assert.Equal(t, OpenAPIVersion, doc.OpenAPI)
	assert.Equal(t, "Users API", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "/v1", doc.Servers[0].URL)
	assert.Nil(t, doc.Paths.Value("/coffee"), "unknown methods are skipped")

	get := doc.Paths.Value("/users/{id}").Get
	require.NotNil(t, get)
	assert.Equal(t, "Fetch one user", get.Summary)
	assert.Equal(t, "get_users_id", get.OperationID)
	assert.Equal(t, []string{"Users"}, get.Tags)

	id := get.Parameters.GetByInAndName(openapi3.ParameterInPath, "id")
	require.NotNil(t, id)
	assert.True(t, id.Required)
	assert.Equal(t, "42", id.Example)
	assert.NotNil(t, get.Parameters.GetByInAndName(openapi3.ParameterInQuery, "expand"))
	assert.NotNil(t, get.Parameters.GetByInAndName(openapi3.ParameterInHeader, "X-Trace"))

	ok := get.Responses.Status(200)
	require.NotNil(t, ok)
	assert.Equal(t, "OK", *ok.Value.Description)
	body := ok.Value.Content.Get("application/json")
	require.NotNil(t, body)
	assert.True(t, body.Schema.Value.Type.Is(openapi3.TypeObject))
	assert.True(t, body.Schema.Value.Properties["id"].Value.Type.Is(openapi3.TypeInteger))
	assert.True(t, body.Schema.Value.Properties["tags"].Value.Type.Is(openapi3.TypeArray))

	post := doc.Paths.Value("/users").Post
	require.NotNil(t, post)
	require.NotNil(t, post.RequestBody)
	assert.NotNil(t, post.RequestBody.Value.Content.Get("application/json"))
	assert.Equal(t, "Created", *post.Responses.Status(201).Value.Description)
}

func TestBuild_LegacySingleEndpoint(t *testing.T) {
	exp := experience(t)
	results := domain.Results{"ep": map[string]any{
		"method":       "DELETE",
		"path":         "/sessions/:token",
		"responseCode": 404,
		"responseBody": "not here",
	}}

	doc, err := Build(context.Background(), exp, results)
	require.NoError(t, err)

	del := doc.Paths.Value("/sessions/{token}").Delete
	require.NotNil(t, del)
	resp := del.Responses.Status(404)
	require.NotNil(t, resp)
	assert.Equal(t, "Not Found", *resp.Value.Description)
	assert.NotNil(t, resp.Value.Content.Get("text/plain"))
}

func TestBuild_NoResults(t *testing.T) {
	doc, err := Build(context.Background(), experience(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Paths.Len())
}

func TestMarshal(t *testing.T) {
	exp := experience(t)
	doc, err := Build(context.Background(), exp, domain.Results{"ep": map[string]any{"path": "/ping"}})
	require.NoError(t, err)

	js, err := MarshalJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"openapi": "3.0.3"`)

	ym, err := MarshalYAML(doc)
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, yaml.Unmarshal(ym, &tree))
	assert.Equal(t, "3.0.3", tree["openapi"])
	assert.Contains(t, tree["paths"], "/ping")
}
