package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

var (
	personID          string
	personAffiliation string
	personRole        string
	personListJSON    bool
)

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Manage the person pool",
	Long:  `Add, list, or remove persons from the pool used for speaker resolution.`,
}

var personAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add or update a person",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonAdd,
}

var personListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persons in the pool",
	RunE:  runPersonList,
}

var personGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one person",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonGet,
}

var personDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a person from the pool",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonDelete,
}

func init() {
	personAddCmd.Flags().StringVar(&personID, "id", "", "person ID (generated when empty)")
	personAddCmd.Flags().StringVarP(&personAffiliation, "affiliation", "a", "", "party or faction")
	personAddCmd.Flags().StringVarP(&personRole, "role", "r", "", "position held")
	personListCmd.Flags().StringVarP(&personAffiliation, "affiliation", "a", "", "filter by affiliation")
	personListCmd.Flags().BoolVar(&personListJSON, "json", false, "output as JSON")

	personCmd.AddCommand(personAddCmd)
	personCmd.AddCommand(personListCmd)
	personCmd.AddCommand(personGetCmd)
	personCmd.AddCommand(personDeleteCmd)
	rootCmd.AddCommand(personCmd)
}

func runPersonAdd(cmd *cobra.Command, args []string) error {
	if err := initStores(); err != nil {
		return err
	}

	id := personID
	if id == "" {
		id = uuid.New().String()
	}

	person := domain.Person{
		ID:          id,
		Name:        args[0],
		Affiliation: personAffiliation,
		Role:        personRole,
	}
	if err := personStore.Save(context.Background(), person); err != nil {
		return fmt.Errorf("saving person: %w", err)
	}

	cmd.Printf("Saved %s (%s)\n", person.Name, person.ID)
	return nil
}

func runPersonList(cmd *cobra.Command, _ []string) error {
	if err := initStores(); err != nil {
		return err
	}

	ctx := context.Background()
	var (
		persons []domain.Person
		err     error
	)
	if personAffiliation != "" {
		persons, err = personStore.ListByAffiliation(ctx, personAffiliation)
	} else {
		persons, err = personStore.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("listing persons: %w", err)
	}

	if personListJSON {
		data, err := json.MarshalIndent(persons, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal persons: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(persons) == 0 {
		cmd.Println("No persons in the pool.")
		return nil
	}

	for i := range persons {
		printPerson(cmd, &persons[i])
	}
	return nil
}

func runPersonGet(cmd *cobra.Command, args []string) error {
	if err := initStores(); err != nil {
		return err
	}

	person, err := personStore.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("getting person: %w", err)
	}

	printPerson(cmd, &person)
	return nil
}

func runPersonDelete(cmd *cobra.Command, args []string) error {
	if err := initStores(); err != nil {
		return err
	}

	if err := personStore.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}

	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func printPerson(cmd *cobra.Command, p *domain.Person) {
	line := fmt.Sprintf("  %s  %s", p.ID, p.Name)
	if p.Affiliation != "" {
		line += fmt.Sprintf(" [%s]", p.Affiliation)
	}
	if p.Role != "" {
		line += fmt.Sprintf(" (%s)", p.Role)
	}
	cmd.Println(line)
}
