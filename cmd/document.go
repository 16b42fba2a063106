package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createDocCmd())
	rootCmd.AddCommand(getDocCmd())
	rootCmd.AddCommand(listDocCmd())
	rootCmd.AddCommand(deleteDocCmd())

	rootCmd.AddCommand(sectionCmd)
	sectionCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	sectionCmd.AddCommand(editSectionCmd())
	sectionCmd.AddCommand(addSectionCmd())
	sectionCmd.AddCommand(removeSectionCmd())
	sectionCmd.AddCommand(reorderSectionsCmd())

	rootCmd.AddCommand(generateCmd())

	rootCmd.AddCommand(reviewDocCmd())
	rootCmd.AddCommand(approveDocCmd())
	rootCmd.AddCommand(unlockDocCmd())

	rootCmd.AddCommand(listDocVersionsCmd())
	rootCmd.AddCommand(getDocVersionCmd())
	rootCmd.AddCommand(restoreDocVersionCmd())
}

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "section commands",
}

func createDocCmd() *cobra.Command {
	var docTitle string
	var templateName string
	var company string
	var division string
	var standards []string

	var required = []string{"title"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a document",
		Long:    `create a document from a template or blank`,
		Example: "sopgov create -t <title> --template pv-module-qualification",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().CreateDocument(context.Background(), service.CreateDocumentRequest{
				Title:     docTitle,
				Template:  templateName,
				Company:   company,
				Division:  division,
				Standards: standards,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document created with id: %s number: %s", doc.ID, doc.Number)
			printDocument(doc)
		},
	}

	command.Flags().StringVarP(&docTitle, "title", "t", "", "title of the document (required)")
	command.Flags().StringVar(&templateName, "template", "", "template name")
	command.Flags().StringVar(&company, "company", "", "company name")
	command.Flags().StringVar(&division, "division", "", "division name")
	command.Flags().StringSliceVar(&standards, "standard", nil, "standard ids to attach")

	command.Flags().SortFlags = false

	return command
}

func getDocCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:   "get",
		Short: "get a document",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().GetDocument(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocument(doc)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	command.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	command.Flags().SortFlags = false

	return command
}

func listDocCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list documents",
		Run: func(cmd *cobra.Command, args []string) {
			docs, err := apiClient().ListDocuments(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Number", "Title", "State", "Revision", "Version"})
			for _, doc := range docs {
				table.Append([]string{
					doc.ID,
					doc.Number,
					doc.Title,
					string(doc.State),
					doc.Revision,
					strconv.FormatInt(doc.Version, 10),
				})
			}
			table.Render()
		},
	}

	return command
}

func deleteDocCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a document",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().DeleteDocument(context.Background(), docID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document deleted: %s", docID)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func editSectionCmd() *cobra.Command {
	var docID string
	var sectionID string
	var content string

	var required = []string{"doc-id", "section-id", "content"}

	command := &cobra.Command{
		Use:     "edit",
		Short:   "edit a section",
		Example: "sopgov section edit -d <doc-id> -s <section-id> -c <content>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().EditSection(context.Background(), docID, sectionID, content)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("section updated, document now at version %d", doc.Version)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&sectionID, "section-id", "s", "", "section id (required)")
	command.Flags().StringVarP(&content, "content", "c", "", "section content (required)")

	command.Flags().SortFlags = false

	return command
}

func addSectionCmd() *cobra.Command {
	var docID string
	var title string
	var contentType string
	var content string
	var position int

	var required = []string{"doc-id", "title"}

	command := &cobra.Command{
		Use:   "add",
		Short: "add a section",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().AddSection(context.Background(), docID, position, title, contentType, content)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("section added, document now at version %d", doc.Version)
			printDocument(doc)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "section title (required)")
	command.Flags().StringVar(&contentType, "type", "text", "content type: text, table, image, equation or flowchart")
	command.Flags().StringVarP(&content, "content", "c", "", "initial content")
	command.Flags().IntVarP(&position, "position", "p", -1, "insert position, -1 appends")

	command.Flags().SortFlags = false

	return command
}

func removeSectionCmd() *cobra.Command {
	var docID string
	var sectionID string

	var required = []string{"doc-id", "section-id"}

	command := &cobra.Command{
		Use:   "remove",
		Short: "remove a section",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().RemoveSection(context.Background(), docID, sectionID)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("section removed, document now at version %d", doc.Version)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&sectionID, "section-id", "s", "", "section id (required)")

	return command
}

func reorderSectionsCmd() *cobra.Command {
	var docID string
	var order []string

	var required = []string{"doc-id", "order"}

	command := &cobra.Command{
		Use:     "reorder",
		Short:   "reorder sections",
		Example: "sopgov section reorder -d <doc-id> -o <id1>,<id2>,<id3>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().ReorderSections(context.Background(), docID, order)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("sections reordered, document now at version %d", doc.Version)
			printDocument(doc)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringSliceVarP(&order, "order", "o", nil, "complete section id order (required)")

	return command
}

func generateCmd() *cobra.Command {
	var docID string
	var sectionID string
	var instructions string

	var required = []string{"doc-id", "section-id"}

	command := &cobra.Command{
		Use:   "generate",
		Short: "generate section content",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().GenerateSection(context.Background(), docID, sectionID, instructions)
			if err != nil {
				logrus.Error(err)
				return
			}

			if res.Fallback {
				color.Yellow("backend %s unavailable, placeholder content used", res.Backend)
			} else {
				logrus.Infof("content generated by backend: %s", res.Backend)
			}

			printDocument(res.Document)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&sectionID, "section-id", "s", "", "section id (required)")
	command.Flags().StringVarP(&instructions, "instructions", "i", "", "extra instructions for the backend")

	command.Flags().SortFlags = false

	return command
}

func reviewDocCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:   "review",
		Short: "submit a document for review",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().SubmitForReview(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s is now %s", doc.Number, doc.State)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func approveDocCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:   "approve",
		Short: "approve a document",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().Approve(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Green("document %s approved as revision %s", doc.Number, doc.Revision)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func unlockDocCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:   "unlock",
		Short: "unlock an approved document for editing",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().Unlock(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document %s is now %s", doc.Number, doc.State)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func listDocVersionsCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:   "versions",
		Short: "list document versions",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			versions, err := apiClient().ListVersions(context.Background(), docID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Version", "Actor", "Role", "State", "Revision", "Description", "Committed At"})
			for i, v := range versions {
				version := strconv.FormatInt(v.Seq, 10)
				if i == len(versions)-1 {
					version += " (current)"
				}
				table.Append([]string{
					version,
					v.Actor,
					v.Role,
					string(v.State),
					v.Revision,
					v.Description,
					v.CommittedAt.Format("2006-01-02 15:04:05"),
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id to list versions")

	return command
}

func getDocVersionCmd() *cobra.Command {
	var docID string
	var version int64

	var required = []string{"doc-id", "version"}

	command := &cobra.Command{
		Use:   "version",
		Short: "get a document at a version",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().GetVersion(context.Background(), docID, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocument(doc)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().Int64VarP(&version, "version", "v", 0, "version number (required)")

	return command
}

func restoreDocVersionCmd() *cobra.Command {
	var docID string
	var version int64

	var required = []string{"doc-id", "version"}

	command := &cobra.Command{
		Use:   "restore",
		Short: "restore a document to a past version",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			doc, err := apiClient().RestoreVersion(context.Background(), docID, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document restored, now at version %d", doc.Version)
			printDocument(doc)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().Int64VarP(&version, "version", "v", 0, "version to restore (required)")

	return command
}

func printDocument(doc *document.Document) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Number", "Title", "State", "Revision", "Version"})
	table.Append([]string{
		doc.ID,
		doc.Number,
		doc.Title,
		string(doc.State),
		doc.Revision,
		strconv.FormatInt(doc.Version, 10),
	})
	table.Render()

	sections := tablewriter.NewWriter(os.Stdout)
	sections.SetHeader([]string{"Section", "Title", "Type", "Generated"})
	for _, s := range doc.Sections {
		generated := ""
		if s.AIGenerated {
			generated = s.Backend
		}
		sections.Append([]string{s.ID, s.Title, string(s.Type), generated})
	}
	sections.Render()
}

func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if cmd.Flag(required).Changed == false {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		cmd.Usage()

		return true
	}

	return false
}
