package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/clickup"
)

var (
	updateName        string
	updateStatus      string
	updateDescription string
)

var updateCmd = &cobra.Command{
	Use:   "update <task_id>",
	Short: "Update a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "New task name")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "New status")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "New description")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var fields clickup.TaskFields
	if updateName != "" {
		fields.Name = &updateName
	}
	if updateStatus != "" {
		fields.Status = &updateStatus
	}
	if updateDescription != "" {
		fields.Description = &updateDescription
	}
	if fields.Name == nil && fields.Status == nil && fields.Description == nil {
		return fmt.Errorf("nothing to update; pass --name, --status, or --description")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.client.UpdateTask(args[0], fields); err != nil {
		return err
	}

	fmt.Println("Task updated successfully!")
	return nil
}
