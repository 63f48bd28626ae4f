package api

import "testing"

func TestValidatePracticePayload_Valid(t *testing.T) {
	raw := []byte(`{"questions":[
		{"id":1,"question":"Pick one","options":["a","b"],"correct_answer":"a"}
	]}`)
	if err := validatePracticePayload(raw); err != nil {
		t.Fatalf("expected valid payload, got: %v", err)
	}
}

func TestValidatePracticePayload_EmptyQuestionList(t *testing.T) {
	// An empty quiz is a valid payload; the session layer decides whether to
	// run it.
	raw := []byte(`{"questions":[]}`)
	if err := validatePracticePayload(raw); err != nil {
		t.Fatalf("expected empty list to validate, got: %v", err)
	}
}

func TestValidatePracticePayload_MissingQuestions(t *testing.T) {
	if err := validatePracticePayload([]byte(`{}`)); err == nil {
		t.Fatal("expected error for missing questions field")
	}
}

func TestValidatePracticePayload_ZeroOptions(t *testing.T) {
	raw := []byte(`{"questions":[
		{"id":1,"question":"Broken","options":[],"correct_answer":""}
	]}`)
	if err := validatePracticePayload(raw); err == nil {
		t.Fatal("expected error for empty options")
	}
}

func TestValidatePracticePayload_OptionsWrongType(t *testing.T) {
	raw := []byte(`{"questions":[
		{"id":1,"question":"Broken","options":[1,2],"correct_answer":""}
	]}`)
	if err := validatePracticePayload(raw); err == nil {
		t.Fatal("expected error for non-string options")
	}
}

func TestValidatePracticePayload_NotJSON(t *testing.T) {
	if err := validatePracticePayload([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
