package tasks

import (
	"encoding/json"
	"testing"

	"github.com/covernet/covernet/internal/models"
)

func TestNewJob(t *testing.T) {
	job1 := NewJob(models.TaskExportPosts, 7)
	job2 := NewJob(models.TaskExportPosts, 7)

	if job1.ID == "" {
		t.Fatal("expected job id to be set")
	}
	if job1.ID == job2.ID {
		t.Error("expected distinct job ids")
	}
	if job1.Name != models.TaskExportPosts {
		t.Errorf("job name = %q, want %q", job1.Name, models.TaskExportPosts)
	}
	if job1.UserID != 7 {
		t.Errorf("job user id = %d, want 7", job1.UserID)
	}

	// uuid ids fit the 36-char task handle column
	if len(job1.ID) != 36 {
		t.Errorf("job id length = %d, want 36", len(job1.ID))
	}
}

func TestJobRoundTrip(t *testing.T) {
	job := NewJob(models.TaskExportPosts, 42)

	payload, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Job
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded != *job {
		t.Errorf("round trip changed job: got %+v, want %+v", decoded, *job)
	}
}
