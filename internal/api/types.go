package api

// LearningModule is one unit of learning content in one language. The server
// computes progress from the task flags; clients only display it.
type LearningModule struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Language     string      `json:"language"`
	HasReadme    bool        `json:"has_readme"`
	HasExercises bool        `json:"has_exercises"`
	HasTests     bool        `json:"has_tests"`
	HasChecklist bool        `json:"has_checklist"`
	Progress     float64     `json:"progress"`
	Tasks        ModuleTasks `json:"tasks"`
}

// ModuleTasks is the fixed set of five completion flags per module.
type ModuleTasks struct {
	Concept   bool `json:"concept"`
	Examples  bool `json:"examples"`
	Exercises bool `json:"exercises"`
	Project   bool `json:"project"`
	Checklist bool `json:"checklist"`
}

// PracticeQuestion is one multiple-choice question. Option order is
// significant: answers are submitted as option indices.
type PracticeQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// PracticeResult is the server-graded outcome of a practice submission.
type PracticeResult struct {
	Score        float64 `json:"score"`
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_count"`
}

// Achievement is a named unlock flag awarded by server-side rules.
type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// ProgressUpdate is the response to a task-completion request.
type ProgressUpdate struct {
	Success bool    `json:"success"`
	Mastery float64 `json:"mastery"`
}

// Task type identifiers, in display order.
const (
	TaskConcept   = "concept"
	TaskExamples  = "examples"
	TaskExercises = "exercises"
	TaskProject   = "project"
	TaskChecklist = "checklist"
)

// TaskTypes lists all tasks in the order cards present them.
var TaskTypes = []string{TaskConcept, TaskExamples, TaskExercises, TaskProject, TaskChecklist}

var taskLabels = map[string]string{
	TaskConcept:   "📖 Concept",
	TaskExamples:  "💻 Code examples",
	TaskExercises: "✏️ Exercises",
	TaskProject:   "📦 Project",
	TaskChecklist: "✅ Self-check",
}

// TaskLabel returns the display label for a task type.
func TaskLabel(task string) string {
	if l, ok := taskLabels[task]; ok {
		return l
	}
	return task
}

// ContentTypeFor maps a task type to the content type served for it.
// Concept reading lives under "readme"; every other task maps to itself.
func ContentTypeFor(task string) string {
	if task == TaskConcept {
		return "readme"
	}
	return task
}

// TaskDone reports whether the given task is complete on t.
func (t ModuleTasks) TaskDone(task string) bool {
	switch task {
	case TaskConcept:
		return t.Concept
	case TaskExamples:
		return t.Examples
	case TaskExercises:
		return t.Exercises
	case TaskProject:
		return t.Project
	case TaskChecklist:
		return t.Checklist
	}
	return false
}
