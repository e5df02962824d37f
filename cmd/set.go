package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/appconf/appconf/internal/model"
	"github.com/appconf/appconf/internal/syncer"
	"github.com/spf13/cobra"
)

var (
	setTitle        string
	setBody         string
	setEnterPackage string
	setLeftURL      string
	setRightURL     string
	setVIP          string
	setAddLicenses  []string
	setDelLicenses  []string
	setMessage      string
)

var setCmd = &cobra.Command{
	Use:   "set <app>",
	Short: "Edit fields of an app config and save it",
	Long: `Load an app config, apply the given field edits locally, validate, and
save. The save is guarded by the version token captured at load time, so a
concurrent remote change is reported as a conflict and nothing is written.

Examples:
  appconf set qq --title "Hello" --vip off
  appconf set qq --add-license user1:20261231 --remove-license olduser
  appconf set qq --left-url https://example.com/left --message "point left banner at example"`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&setTitle, "title", "", "Set the title")
	setCmd.Flags().StringVar(&setBody, "body", "", "Set the body text")
	setCmd.Flags().StringVar(&setEnterPackage, "enter-package", "", "Set the enter package")
	setCmd.Flags().StringVar(&setLeftURL, "left-url", "", "Set the left URL")
	setCmd.Flags().StringVar(&setRightURL, "right-url", "", "Set the right URL")
	setCmd.Flags().StringVar(&setVIP, "vip", "", "Set VIP state: on or off")
	setCmd.Flags().StringArrayVar(&setAddLicenses, "add-license", nil, "Add a license as id:YYYYMMDD (repeatable)")
	setCmd.Flags().StringArrayVar(&setDelLicenses, "remove-license", nil, "Remove licenses with this id (repeatable)")
	setCmd.Flags().StringVarP(&setMessage, "message", "m", "", "Commit message for the save")
}

func runSet(cmd *cobra.Command, args []string) error {
	store, sess, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newStoreClient(cmd.Context(), sess)
	if err != nil {
		return err
	}

	reg, err := loadedRegistry(cmd.Context(), client, sess)
	if err != nil {
		return err
	}

	doc, err := reg.Select(args[0])
	if err != nil {
		return err
	}

	s := syncer.New(client)
	if err := s.Load(cmd.Context(), doc); err != nil {
		return err
	}

	if err := doc.Edit(func(c *model.ConfigDocument) { applyEdits(cmd, c) }); err != nil {
		return err
	}

	message := setMessage
	if message == "" {
		message = fmt.Sprintf("update config for %s", args[0])
	}

	if err := s.Save(cmd.Context(), doc, message); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Saved %s (token %s)\n", args[0], doc.VersionToken())

	return nil
}

func applyEdits(cmd *cobra.Command, c *model.ConfigDocument) {
	if cmd.Flags().Changed("title") {
		c.Title = setTitle
	}
	if cmd.Flags().Changed("body") {
		c.Body = setBody
	}
	if cmd.Flags().Changed("enter-package") {
		c.EnterPackage = setEnterPackage
	}
	if cmd.Flags().Changed("left-url") {
		c.LeftURL = setLeftURL
	}
	if cmd.Flags().Changed("right-url") {
		c.RightURL = setRightURL
	}
	if cmd.Flags().Changed("vip") {
		if strings.EqualFold(setVIP, "off") {
			c.VIP = model.VIPOff
		} else {
			c.VIP = model.VIPOn
		}
	}

	for _, id := range setDelLicenses {
		kept := c.Licenses[:0]
		for _, l := range c.Licenses {
			if l.ID != id {
				kept = append(kept, l)
			}
		}
		c.Licenses = kept
	}

	for _, spec := range setAddLicenses {
		id, expire, _ := strings.Cut(spec, ":")
		c.Licenses = append(c.Licenses, model.License{ID: id, Expire: expire})
	}
}
