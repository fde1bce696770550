package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/vocabquiz/internal/importer"
	"github.com/example/vocabquiz/internal/mastery"
)

// WriteReport prints overall stats, topics ranked by mastery and the review list
func WriteReport(out io.Writer, report mastery.Report) error {
	o := report.Overall
	fmt.Fprintf(out, "Attempts: %d  Correct: %d  Accuracy: %.1f%%  Words studied: %d\n",
		o.TotalAttempts, o.TotalCorrect, o.OverallAccuracy, o.WordsStudied)

	if len(report.Topics) > 0 {
		fmt.Fprintln(out, "\nTopics by mastery")
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TOPIC\tMASTERY\tWORDS\tATTEMPTS")
		for _, t := range report.Topics {
			fmt.Fprintf(tw, "%s\t%.1f%%\t%d\t%d\n", t.Name, t.AverageMastery, t.WordsStudied, t.TotalAttempts)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nWords to review")
	if len(report.Review) == 0 {
		fmt.Fprintln(out, "  none")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tTOPIC\tMASTERY\tREVIEW ON")
	for _, w := range report.Review {
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%s\n", w.Word, w.TopicName, w.Mastery, w.ReviewDate.Format("2006-01-02"))
	}
	return tw.Flush()
}

// WriteLegacyReport prints accuracy by topic and the most missed words
func WriteLegacyReport(out io.Writer, report mastery.LegacyReport) error {
	fmt.Fprintf(out, "Attempts: %d  Correct: %d  Accuracy: %.1f%%\n",
		report.TotalAttempts, report.TotalCorrect, report.Accuracy*100)

	fmt.Fprintln(out, "\nAccuracy by topic")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range report.Topics {
		if !t.HasData {
			fmt.Fprintf(tw, "%s\tno data\n", t.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.1f%%\t(%d attempts)\n", t.Name, t.Accuracy*100, t.Attempts)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nDifficult words")
	if len(report.DifficultWords) == 0 {
		fmt.Fprintln(out, "  none")
		return nil
	}
	for _, w := range report.DifficultWords {
		fmt.Fprintf(out, "  %s (%s): %d/%d correct\n", w.Word, w.TopicName, w.Correct, w.Total)
	}
	return nil
}

// WriteImportErrors lists rejected rows
func WriteImportErrors(out io.Writer, errs []importer.RowError) {
	for _, e := range errs {
		fmt.Fprintf(out, "  %s\n", e)
	}
}
