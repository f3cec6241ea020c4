package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fermi-lat/classifier/forest"
	"github.com/fermi-lat/classifier/xmlimport"
)

var importXMLVars []string

var importXMLCmd = &cobra.Command{
	Use:   "import-xml <tree-ensemble.xml> <category> <output.txt>",
	Short: "Convert a PMML-like tree ensemble XML document into a forest text file",
	Args:  cobra.ExactArgs(3),
	RunE:  runImportXML,
}

func init() {
	importXMLCmd.Flags().StringSliceVar(&importXMLVars, "vars", nil, "known feature names, in column order; names seen in the document but not listed here are appended")
}

func runImportXML(cmd *cobra.Command, args []string) error {
	xmlPath, category, outPath := args[0], args[1], args[2]

	in, err := os.Open(xmlPath)
	if err != nil {
		return err
	}
	defer in.Close()

	vars := importXMLVars
	featureIndex := func(name string) int {
		for i, v := range vars {
			if v == name {
				return i
			}
		}
		vars = append(vars, name)
		return len(vars) - 1
	}

	f, err := xmlimport.Import(in, category, featureIndex)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return forest.WriteText(out, f)
}
