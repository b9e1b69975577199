package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genobase/varset/internal/htsfile"
	"github.com/genobase/varset/internal/ontology"
	"github.com/genobase/varset/internal/registry"
	"github.com/genobase/varset/internal/variants"
)

func newScanCmd() *cobra.Command {
	var (
		datasetID    string
		name         string
		refSetID     string
		registryPath string
		ontologyPath string
	)

	cmd := &cobra.Command{
		Use:   "scan <directory | data.vcf.gz ...>",
		Short: "Build a variant set from indexed VCF files",
		Long: `Scan indexes a collection of bgzip-compressed, tabix-indexed VCF
files into a variant set. Each file's chromosomes are claimed in a
routing table; claiming a chromosome twice is an error. Header
metadata and sample names must agree across all files.

When --registry is given, the resulting set is persisted and can be
served later with "varset query".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataPaths, indexPaths, err := collectFilePairs(args)
			if err != nil {
				return err
			}
			if len(dataPaths) == 0 {
				return fmt.Errorf("no indexed VCF files found")
			}

			lookup := ontology.Lookup(ontology.Empty)
			if ontologyPath != "" {
				m, err := ontology.LoadMap(ontologyPath)
				if err != nil {
					return fmt.Errorf("load ontology map: %w", err)
				}
				lookup = m
			}

			set := variants.NewFileVariantSet(datasetID, name, htsfile.TabixOpener{}, lookup)
			set.SetReferenceSetID(refSetID)
			set.SetLogger(logger)
			if err := set.Populate(dataPaths, indexPaths); err != nil {
				return err
			}

			printScanSummary(set)

			if registryPath != "" {
				store, err := registry.Open(registryPath)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.SaveVariantSet(set); err != nil {
					return err
				}
				logger.Info("variant set saved",
					zap.String("registry", registryPath),
					zap.String("dataset", datasetID),
					zap.String("name", name))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetID, "dataset", viper.GetString("dataset"), "Dataset identifier")
	cmd.Flags().StringVar(&name, "name", "", "Variant set name (required)")
	cmd.Flags().StringVar(&refSetID, "reference-set", "", "Reference set identifier")
	cmd.Flags().StringVar(&registryPath, "registry", viper.GetString("registry"), "Registry database path")
	cmd.Flags().StringVar(&ontologyPath, "ontology", viper.GetString("ontology"), "Sequence ontology name→ID map (TSV)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// collectFilePairs expands arguments into parallel data/index path
// lists. A directory argument is scanned for *.vcf.gz files; explicit
// file arguments name the data files directly. Every data file must
// have a .tbi sidecar.
func collectFilePairs(args []string) (dataPaths, indexPaths []string, err error) {
	var dataFiles []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}
		if info.IsDir() {
			matches, err := filepath.Glob(filepath.Join(arg, "*.vcf.gz"))
			if err != nil {
				return nil, nil, err
			}
			dataFiles = append(dataFiles, matches...)
			continue
		}
		if !strings.HasSuffix(arg, ".vcf.gz") {
			return nil, nil, fmt.Errorf("%s: expected a .vcf.gz file or directory", arg)
		}
		dataFiles = append(dataFiles, arg)
	}
	sort.Strings(dataFiles)

	for _, data := range dataFiles {
		index := data + ".tbi"
		if _, err := os.Stat(index); err != nil {
			return nil, nil, fmt.Errorf("%s: missing tabix index %s", data, index)
		}
		dataPaths = append(dataPaths, data)
		indexPaths = append(indexPaths, index)
	}
	return dataPaths, indexPaths, nil
}

func printScanSummary(set *variants.FileVariantSet) {
	chroms := make([]string, 0, len(set.ChromFiles()))
	for chrom := range set.ChromFiles() {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	fmt.Printf("Variant set %s (%s)\n", set.Name(), set.ID())
	fmt.Printf("  chromosomes: %d (%s)\n", len(chroms), strings.Join(chroms, ", "))
	fmt.Printf("  call sets:   %d\n", set.NumCallSets())
	fmt.Printf("  metadata:    %d entries\n", len(set.Metadata()))
	if sets := set.AnnotationSets(); len(sets) > 0 {
		fmt.Printf("  annotations: %s\n", sets[0].Type())
	} else {
		fmt.Printf("  annotations: none\n")
	}
}
