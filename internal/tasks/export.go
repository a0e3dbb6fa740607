package tasks

import (
	"github.com/gvault/gvault/internal/vault"
)

// VaultTasks converts tasks to their daily note representation. Checkbox
// state in notes is owned by the vault (recovered from the previous
// version of the section), so remote completion status is not carried;
// neither are subtask hierarchy or links.
func VaultTasks(list []Task) []vault.Task {
	out := make([]vault.Task, 0, len(list))
	for _, t := range list {
		out = append(out, vault.Task{
			Title: t.Title,
			Notes: t.Notes,
			Due:   t.Due,
		})
	}
	return out
}
