package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api")
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:3000/api/")
	assert.Equal(t, "http://localhost:3000/api", c.BaseURL())
}

func TestModules(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/modules", r.URL.Path)
		io.WriteString(w, `[
			{"id":"01-basics","name":"Basics","language":"go","progress":40,
			 "tasks":{"concept":true,"examples":true}},
			{"id":"02-slices","name":"Slices","language":"go","progress":0,"tasks":{}}
		]`)
	})

	mods, err := c.Modules(context.Background())
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "01-basics", mods[0].ID)
	assert.Equal(t, 40.0, mods[0].Progress)
	assert.True(t, mods[0].Tasks.Concept)
	assert.False(t, mods[0].Tasks.Project)
}

func TestModulesServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Modules(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /modules")
	assert.Contains(t, err.Error(), "500")
}

func TestUpdateProgress(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/modules/01-basics/progress", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		io.WriteString(w, `{"success":true,"mastery":60}`)
	})

	out, err := c.UpdateProgress(context.Background(), "01-basics", TaskConcept)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 60.0, out.Mastery)
	assert.Equal(t, map[string]string{"task_type": "concept"}, gotBody)
}

func TestContentEscapesPathSegments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/modules/go/01%20basics/content/readme", r.URL.EscapedPath())
		io.WriteString(w, `{"content":"# Hello"}`)
	})

	body, err := c.Content(context.Background(), "go", "01 basics", "readme")
	require.NoError(t, err)
	assert.Equal(t, "# Hello", body)
}

func TestExamplesAndExampleContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/modules/go/01-basics/examples":
			io.WriteString(w, `{"examples":["main.go","loop.go"]}`)
		case "/api/modules/go/01-basics/examples/main.go":
			io.WriteString(w, `{"content":"package main"}`)
		default:
			http.NotFound(w, r)
		}
	})

	files, err := c.Examples(context.Background(), "go", "01-basics")
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "loop.go"}, files)

	src, err := c.ExampleContent(context.Background(), "go", "01-basics", "main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main", src)
}

func TestPracticeQuestions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/practice/01-basics", r.URL.Path)
		io.WriteString(w, `{"questions":[
			{"id":1,"question":"What is a slice?","options":["a","b","c"],"correct_answer":"a"}
		]}`)
	})

	qs, err := c.PracticeQuestions(context.Background(), "01-basics")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "What is a slice?", qs[0].Question)
	assert.Len(t, qs[0].Options, 3)
}

func TestPracticeQuestionsRejectsEmptyOptions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"questions":[
			{"id":1,"question":"Broken","options":[],"correct_answer":""}
		]}`)
	})

	_, err := c.PracticeQuestions(context.Background(), "01-basics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "practice payload")
}

func TestPracticeQuestionsRejectsMalformedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"questions":"nope"}`)
	})

	_, err := c.PracticeQuestions(context.Background(), "01-basics")
	require.Error(t, err)
}

func TestSubmitPractice(t *testing.T) {
	var gotBody map[string][]int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/practice/submit/01-basics", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		io.WriteString(w, `{"score":66.67,"correct_count":2,"total_count":3}`)
	})

	res, err := c.SubmitPractice(context.Background(), "01-basics", []int{0, -1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 3, res.TotalCount)
	// Unanswered sentinels go over the wire untouched.
	assert.Equal(t, map[string][]int{"answers": {0, -1, 2}}, gotBody)
}

func TestAchievements(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/achievements", r.URL.Path)
		io.WriteString(w, `[{"name":"First Steps","description":"Complete a task","unlocked":true}]`)
	})

	list, err := c.Achievements(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Unlocked)
}

func TestExportReturnsRawBytes(t *testing.T) {
	blob := `{"modules":[],"exported_at":"2026-01-01"}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export", r.URL.Path)
		io.WriteString(w, blob)
	})

	data, err := c.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, blob, string(data))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "readme", ContentTypeFor(TaskConcept))
	assert.Equal(t, "exercises", ContentTypeFor(TaskExercises))
	assert.Equal(t, "checklist", ContentTypeFor(TaskChecklist))
}

func TestTaskDone(t *testing.T) {
	tasks := ModuleTasks{Concept: true, Project: true}
	assert.True(t, tasks.TaskDone(TaskConcept))
	assert.True(t, tasks.TaskDone(TaskProject))
	assert.False(t, tasks.TaskDone(TaskExamples))
	assert.False(t, tasks.TaskDone("bogus"))
}
