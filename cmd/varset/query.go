package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/genobase/varset/internal/ga4gh"
	"github.com/genobase/varset/internal/htsfile"
	"github.com/genobase/varset/internal/ontology"
	"github.com/genobase/varset/internal/registry"
)

func newQueryCmd() *cobra.Command {
	var (
		registryPath string
		datasetID    string
		name         string
		refName      string
		start, end   int64
		callSetNames []string
		annotations  bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Stream variants or annotations for a genomic range",
		Long: `Query loads a previously scanned variant set from the registry and
streams the variants overlapping [--start, --end) on --ref as
tab-separated rows. With --annotations the transcript-effect
annotations are reported instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := registry.Open(registryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			set, err := store.LoadVariantSet(datasetID, name, htsfile.TabixOpener{}, ontology.Empty)
			if err != nil {
				return err
			}
			set.SetLogger(logger)

			if annotations {
				sets := set.AnnotationSets()
				if len(sets) == 0 {
					return fmt.Errorf("variant set %s has no annotations", name)
				}
				cursor, err := sets[0].VariantAnnotations(refName, start, end)
				if err != nil {
					return err
				}
				defer cursor.Close()
				return printAnnotations(refName, cursor)
			}

			var callSetIDs []string
			for _, csName := range callSetNames {
				cs, err := set.CallSetByName(csName)
				if err != nil {
					return err
				}
				callSetIDs = append(callSetIDs, cs.ID())
			}

			cursor, err := set.Variants(refName, start, end, callSetIDs)
			if err != nil {
				return err
			}
			defer cursor.Close()
			return printVariants(cursor)
		},
	}

	cmd.Flags().StringVar(&registryPath, "registry", viper.GetString("registry"), "Registry database path")
	cmd.Flags().StringVar(&datasetID, "dataset", viper.GetString("dataset"), "Dataset identifier")
	cmd.Flags().StringVar(&name, "name", "", "Variant set name (required)")
	cmd.Flags().StringVar(&refName, "ref", "", "Reference (chromosome) name (required)")
	cmd.Flags().Int64Var(&start, "start", 0, "Range start (0-based, inclusive)")
	cmd.Flags().Int64Var(&end, "end", htsfile.MaxFetchEnd, "Range end (exclusive)")
	cmd.Flags().StringSliceVar(&callSetNames, "call-sets", nil, "Restrict calls to these sample names")
	cmd.Flags().BoolVar(&annotations, "annotations", false, "Report annotations instead of variants")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("ref")

	return cmd
}

type variantCursor interface {
	Next() (*ga4gh.Variant, error)
}

type annotationCursor interface {
	Next() (*ga4gh.VariantAnnotation, error)
}

func printVariants(cursor variantCursor) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tSTART\tEND\tBASES\tALTS\tCALLS")
	for {
		v, err := cursor.Next()
		if err != nil {
			return err
		}
		if v == nil {
			break
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n",
			v.ReferenceName, v.Start, v.End, v.ReferenceBases,
			strings.Join(v.AlternateBases, ","), formatCalls(v.Calls))
	}
	return w.Flush()
}

func formatCalls(calls []*ga4gh.Call) string {
	parts := make([]string, 0, len(calls))
	for _, c := range calls {
		gt := make([]string, 0, len(c.Genotype))
		for _, allele := range c.Genotype {
			gt = append(gt, fmt.Sprintf("%d", allele))
		}
		sep := "/"
		if c.Phaseset != "" {
			sep = "|"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", c.CallSetName, strings.Join(gt, sep)))
	}
	return strings.Join(parts, " ")
}

func printAnnotations(refName string, cursor annotationCursor) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tSTART\tEND\tALT\tFEATURE\tEFFECTS\tHGVS_C")
	for {
		ann, err := cursor.Next()
		if err != nil {
			return err
		}
		if ann == nil {
			break
		}
		for _, te := range ann.TranscriptEffects {
			terms := make([]string, 0, len(te.Effects))
			for _, term := range te.Effects {
				terms = append(terms, term.Term)
			}
			hgvsC := ""
			if te.HGVSAnnotation != nil {
				hgvsC = te.HGVSAnnotation.Transcript
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
				refName, ann.Start, ann.End,
				te.AlternateBases, te.FeatureID, strings.Join(terms, "&"), hgvsC)
		}
	}
	return w.Flush()
}
