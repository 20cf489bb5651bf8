package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/clickup"
)

var (
	createDescription string
	createPriority    int
	createDue         string
)

var createCmd = &cobra.Command{
	Use:   "create <list_id> <name>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(2),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createDescription, "description", "", "Task description")
	createCmd.Flags().IntVar(&createPriority, "priority", 0, "Priority (1=Urgent, 4=Low)")
	createCmd.Flags().StringVar(&createDue, "due", "", "Due date (YYYY-MM-DD)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	listID, name := args[0], args[1]

	if createPriority != 0 && (createPriority < 1 || createPriority > 4) {
		return fmt.Errorf("priority must be between 1 (urgent) and 4 (low)")
	}

	fields := clickup.TaskFields{Name: &name}
	if createDescription != "" {
		fields.Description = &createDescription
	}
	if createPriority != 0 {
		fields.Priority = &createPriority
	}
	if createDue != "" {
		due, err := time.ParseInLocation("2006-01-02", createDue, time.Local)
		if err != nil {
			return fmt.Errorf("invalid due date %q (expected YYYY-MM-DD): %w", createDue, err)
		}
		fields.DueDate = &clickup.Millis{Time: due}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	task, err := a.client.CreateTask(listID, fields)
	if err != nil {
		return err
	}

	fmt.Println("Task created successfully!")
	fmt.Printf("   ID: %s\n", task.ID)
	if task.URL != "" {
		fmt.Printf("   URL: %s\n", task.URL)
	}
	return nil
}
