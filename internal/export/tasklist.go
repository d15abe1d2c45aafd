package export

import (
	"fmt"
	"strings"

	"creation-server/internal/models"
)

func taskListBody(data models.AppData) string {
	title := data.Title
	if title == "" {
		title = "Task List"
	}

	var items strings.Builder
	for idx, task := range data.Tasks {
		itemClass := "task-item"
		checked := ""
		if task.Completed {
			itemClass = "task-item completed"
			checked = "checked "
		}
		items.WriteString(fmt.Sprintf(`
          <div class="%s" data-index="%d">
            <input type="checkbox" %sonchange="toggleTask(%d)" />
            <span class="task-text">%s</span>
            <button class="delete-btn" onclick="deleteTask(%d)">&#215;</button>
          </div>`, itemClass, idx, checked, idx, escape(task.Text), idx))
	}

	return fmt.Sprintf(`
    <div class="container">
      <h1>%s</h1>
      <div class="task-input-container">
        <input type="text" id="taskInput" placeholder="Add a new task..." />
        <button class="add-btn" onclick="addTask()">Add</button>
      </div>
      <div id="taskList" class="task-list">%s
      </div>
    </div>`, escape(title), items.String())
}

const taskListStyles = `
    .task-input-container {
      display: flex;
      gap: 12px;
      margin-bottom: 24px;
    }
    #taskInput {
      flex: 1;
    }
    .add-btn {
      background: oklch(0.55 0.15 264);
      color: white;
      padding: 8px 24px;
    }
    .add-btn:hover {
      background: oklch(0.50 0.15 264);
    }
    .task-list {
      display: flex;
      flex-direction: column;
      gap: 12px;
    }
    .task-item {
      display: flex;
      align-items: center;
      gap: 12px;
      padding: 16px;
      background: white;
      border-radius: 8px;
      box-shadow: 0 1px 3px rgba(0,0,0,0.1);
    }
    .task-item.completed .task-text {
      text-decoration: line-through;
      opacity: 0.6;
    }
    .task-text {
      flex: 1;
    }
    .delete-btn {
      background: oklch(0.55 0.15 0);
      color: white;
      width: 32px;
      height: 32px;
      border-radius: 50%;
      font-size: 20px;
      line-height: 1;
    }
    .delete-btn:hover {
      background: oklch(0.50 0.15 0);
    }`

const taskListScripts = `
    let tasks = Array.from(document.querySelectorAll('.task-item')).map(el => ({
      text: el.querySelector('.task-text').textContent,
      completed: el.querySelector('input[type="checkbox"]').checked
    }));

    function escapeText(text) {
      const div = document.createElement('div');
      div.textContent = text;
      return div.innerHTML;
    }

    function renderTasks() {
      const taskList = document.getElementById('taskList');
      taskList.innerHTML = tasks.map((task, idx) => ` + "`" + `
        <div class="task-item ${task.completed ? 'completed' : ''}" data-index="${idx}">
          <input type="checkbox" ${task.completed ? 'checked' : ''} onchange="toggleTask(${idx})" />
          <span class="task-text">${escapeText(task.text)}</span>
          <button class="delete-btn" onclick="deleteTask(${idx})">&#215;</button>
        </div>
      ` + "`" + `).join('');
    }

    function addTask() {
      const input = document.getElementById('taskInput');
      const text = input.value.trim();
      if (text) {
        tasks.push({ text, completed: false });
        input.value = '';
        renderTasks();
      }
    }

    function toggleTask(index) {
      tasks[index].completed = !tasks[index].completed;
      renderTasks();
    }

    function deleteTask(index) {
      tasks.splice(index, 1);
      renderTasks();
    }

    document.getElementById('taskInput').addEventListener('keypress', (e) => {
      if (e.key === 'Enter') addTask();
    });`
