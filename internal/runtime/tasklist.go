package runtime

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"creation-server/internal/models"
)

// TaskFilter - вкладка фильтрации списка задач.
type TaskFilter string

const (
	TaskFilterAll    TaskFilter = "all"
	TaskFilterActive TaskFilter = "active"
	TaskFilterDone   TaskFilter = "done"
)

// Task - задача в рантайме task-list.
type Task struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Category string `json:"category,omitempty"`
}

// Стартовые задачи, если генерация не дала своих.
var defaultSeedTasks = []models.AppTask{
	{Text: "Welcome to your task manager!", Category: "General"},
	{Text: "Add your first task below", Category: "General"},
}

// TaskList - состояние task-list приложения. Засеивается задачами из
// данных генерации, все отмечены невыполненными.
type TaskList struct {
	title string
	tasks []Task
}

// NewTaskList создает список из данных приложения.
func NewTaskList(data models.AppData) *TaskList {
	title := data.Title
	if title == "" {
		title = "Task Manager"
	}
	seed := data.Tasks
	if len(seed) == 0 {
		seed = defaultSeedTasks
	}
	l := &TaskList{title: title}
	for _, t := range seed {
		l.tasks = append(l.tasks, Task{
			ID:       uuid.NewString(),
			Text:     t.Text,
			Category: t.Category,
		})
	}
	return l
}

// Title возвращает заголовок приложения.
func (l *TaskList) Title() string { return l.title }

// Add добавляет задачу с обрезанным текстом. Пустой текст игнорируется.
func (l *TaskList) Add(text string) (Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Task{}, false
	}
	task := Task{ID: uuid.NewString(), Text: trimmed}
	l.tasks = append(l.tasks, task)
	return task, true
}

// Toggle переключает выполненность задачи по id.
func (l *TaskList) Toggle(id string) bool {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i].Done = !l.tasks[i].Done
			return true
		}
	}
	return false
}

// Delete удаляет задачу по id.
func (l *TaskList) Delete(id string) bool {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Tasks возвращает задачи, проходящие фильтр, в порядке добавления.
func (l *TaskList) Tasks(filter TaskFilter) []Task {
	out := make([]Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		switch filter {
		case TaskFilterActive:
			if t.Done {
				continue
			}
		case TaskFilterDone:
			if !t.Done {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Progress возвращает число выполненных задач, общее число и процент
// (округленный до целого; 0 для пустого списка).
func (l *TaskList) Progress() (done, total, percent int) {
	total = len(l.tasks)
	for _, t := range l.tasks {
		if t.Done {
			done++
		}
	}
	if total > 0 {
		percent = int(math.Round(float64(done) / float64(total) * 100))
	}
	return done, total, percent
}
