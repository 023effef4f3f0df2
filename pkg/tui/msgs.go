package tui

import (
	"github.com/harrisonrobin/clockit/pkg/session"
	"github.com/harrisonrobin/clockit/pkg/store"
	"github.com/harrisonrobin/clockit/pkg/task"
)

type authResultMsg struct {
	outcome session.Outcome
}

type storeChangedMsg struct {
	change store.Change
}

type publishedMsg struct {
	count int
	err   error
}

type unpublishedMsg struct {
	task task.Task
	err  error
}

type loggedOutMsg struct {
	err error
}
