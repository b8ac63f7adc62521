package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/scribe-works/scribe/pkg/client"
)

func loadSession(c *client.Client) (*client.Controller, error) {
	data, err := os.ReadFile(sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no session at %s: run 'scribe start' first", sessionPath)
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var st client.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	return client.Restore(c, st), nil
}

func saveSession(ctrl *client.Controller) error {
	data, err := json.MarshalIndent(ctrl.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(sessionPath, data, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func printState(ctrl *client.Controller) {
	st := ctrl.Snapshot()

	fmt.Printf("status: %s\n", st.Status)
	if st.RunID != uuid.Nil {
		fmt.Printf("run: %s\n", st.RunID)
	}
	if st.StepID != "" {
		fmt.Printf("step: %s (%d)\n", st.StepID, ctrl.StepNumber())
	}
	if st.LastError != "" {
		fmt.Printf("last error: %s\n", st.LastError)
	}

	a := st.Artifacts

	if a.Outline != nil {
		fmt.Printf("\noutline: %s\n", a.Outline.Title)
		for i, s := range a.Outline.Sections {
			fmt.Printf("  %d. %s\n", i+1, s.Heading)
		}
	}

	if a.Sources != nil {
		fmt.Println("\nsources:")
		for i, group := range a.Sources {
			fmt.Printf("  section %d: %d candidates\n", i+1, len(group))
		}
	}

	if a.Sections != nil {
		fmt.Printf("\ndrafted sections: %d\n", len(a.Sections))
	}

	if a.Prompt != "" {
		fmt.Printf("\ncoach [%s]: %s\n", a.Stage, a.Prompt)
	}

	if a.Result != nil {
		fmt.Println("\nresult:")
		fmt.Println(a.Result.Draft)
	}
}
