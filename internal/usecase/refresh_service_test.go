package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newRefreshFixture(source *stubRowSource, maxWorkers int) *RefreshService {
	svc, _ := newIngestionFixture(source, time.Date(2022, 8, 13, 0, 0, 0, 0, time.UTC))
	return NewRefreshService(svc, maxWorkers)
}

func TestRefreshService_Refresh_DefaultsToAllDatasets(t *testing.T) {
	svc := newRefreshFixture(&stubRowSource{}, 2)

	result, err := svc.Refresh(context.Background(), RefreshInput{})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.TaskCount != 3 || result.SuccessCount != 3 || result.FailedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("unexpected worker count: %d", result.WorkerCount)
	}

	// Tasks come back in dataset name order regardless of completion
	// order.
	wantOrder := []string{"batting", "bowling", "team"}
	if len(result.Tasks) != len(wantOrder) {
		t.Fatalf("unexpected tasks: %+v", result.Tasks)
	}
	for i, task := range result.Tasks {
		if task.Dataset != wantOrder[i] {
			t.Fatalf("unexpected task order: %+v", result.Tasks)
		}
		if task.Status != "success" {
			t.Fatalf("unexpected task status: %+v", task)
		}
	}
}

func TestRefreshService_Refresh_DedupesDatasets(t *testing.T) {
	svc := newRefreshFixture(&stubRowSource{}, 2)

	result, err := svc.Refresh(context.Background(), RefreshInput{Datasets: []string{"team", "TEAM", "team"}})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.TaskCount != 1 || len(result.Tasks) != 1 || result.Tasks[0].Dataset != "team" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRefreshService_Refresh_UnknownDataset(t *testing.T) {
	svc := newRefreshFixture(&stubRowSource{}, 2)

	_, err := svc.Refresh(context.Background(), RefreshInput{Datasets: []string{"fielding"}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRefreshService_Refresh_ReportsTaskFailure(t *testing.T) {
	svc := newRefreshFixture(&stubRowSource{err: errors.New("upstream unavailable")}, 1)

	result, err := svc.Refresh(context.Background(), RefreshInput{Datasets: []string{"team"}})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.SuccessCount != 0 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	task := result.Tasks[0]
	if task.Status != "failed" || task.Message == "" {
		t.Fatalf("unexpected failed task: %+v", task)
	}
}

func TestRefreshService_Refresh_WorkerCountClampedToTasks(t *testing.T) {
	svc := newRefreshFixture(&stubRowSource{}, 16)

	result, err := svc.Refresh(context.Background(), RefreshInput{Datasets: []string{"team"}})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.WorkerCount != 1 {
		t.Fatalf("expected worker count clamped to 1, got %d", result.WorkerCount)
	}
}

func TestRefreshService_Refresh_InputOverridesWorkerCount(t *testing.T) {
	svc := newRefreshFixture(&stubRowSource{}, 3)

	result, err := svc.Refresh(context.Background(), RefreshInput{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("expected worker count 2, got %d", result.WorkerCount)
	}
}
