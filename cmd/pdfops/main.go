package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/argp"
	"github.com/tsawler/pdfstream"
	"github.com/tsawler/pdfstream/contentstream"
	"github.com/tsawler/pdfstream/core"
	"github.com/tsawler/pdfstream/reader"
	"github.com/tsawler/pdfstream/source"
)

type Ops struct {
	Offset    int    `short:"s" default:"0" desc:"Offset of the content stream in the file"`
	Length    int    `short:"n" default:"-1" desc:"Length of the content stream, -1 for up to the end of the file"`
	Filter    string `short:"f" desc:"Comma separated filters the stream is encoded with"`
	Resources string `short:"r" desc:"Resources dictionary in PDF syntax, e.g. '<< /ColorSpace << /CS0 /DeviceRGB >> >>'"`
	NoMmap    bool   `desc:"Read the file without memory mapping"`
	Input     string `index:"0" desc:"Input file"`
}

type Images struct {
	Offset    int    `short:"s" default:"0" desc:"Offset of the content stream in the file"`
	Length    int    `short:"n" default:"-1" desc:"Length of the content stream, -1 for up to the end of the file"`
	Filter    string `short:"f" desc:"Comma separated filters the stream is encoded with"`
	Resources string `short:"r" desc:"Resources dictionary in PDF syntax"`
	Output    string `short:"o" default:"." desc:"Output directory"`
	Input     string `index:"0" desc:"Input file"`
}

type Info struct {
	Input string `index:"0" desc:"Input file"`
}

func main() {
	root := argp.NewCmd(&Ops{}, "Dump the operations of a PDF content stream")
	root.AddCmd(&Images{}, "images", "Extract inline images as PNG")
	root.AddCmd(&Info{}, "info", "Show file header information")
	root.Parse()
	root.PrintHelp()
}

// extractor configures the section shared by the commands.
func extractor(input string, offset, length int, filter, resources string) (*pdfstream.Extractor, error) {
	ext := pdfstream.Open(input).Section(int64(offset), int64(length))
	if filter != "" {
		ext = ext.Filters(strings.Split(filter, ",")...)
	}
	if resources != "" {
		obj, err := contentstream.NewParser(strings.NewReader(resources)).ReadObject()
		if err != nil {
			return nil, fmt.Errorf("bad resources: %w", err)
		}
		dict, ok := obj.(core.Dict)
		if !ok {
			return nil, fmt.Errorf("bad resources: %s is not a dictionary", obj)
		}
		ext = ext.Resources(dict)
	}
	return ext, nil
}

func printWarnings(warnings []pdfstream.Warning) {
	if len(warnings) > 0 {
		fmt.Fprintln(os.Stderr, pdfstream.FormatWarnings(warnings))
	}
}

func (cmd *Ops) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}

	ext, err := extractor(cmd.Input, cmd.Offset, cmd.Length, cmd.Filter, cmd.Resources)
	if err != nil {
		return err
	}
	if cmd.NoMmap {
		ext = ext.WithoutMapping()
	}

	i := 0
	warnings, err := ext.Each(func(op contentstream.Operation) error {
		operands := make([]string, len(op.Operands))
		for j, o := range op.Operands {
			operands[j] = o.String()
		}
		if len(operands) == 0 {
			fmt.Printf("%4d %s\n", i, op.Operator)
		} else {
			fmt.Printf("%4d %s %s\n", i, strings.Join(operands, " "), op.Operator)
		}
		i++
		return nil
	})
	printWarnings(warnings)
	return err
}

func (cmd *Images) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}

	ext, err := extractor(cmd.Input, cmd.Offset, cmd.Length, cmd.Filter, cmd.Resources)
	if err != nil {
		return err
	}

	images, warnings, err := ext.InlineImages()
	printWarnings(warnings)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cmd.Output, 0755); err != nil {
		return err
	}
	for i, img := range images {
		data, suffix := img.Data, ".jpg"
		if img.Filter != "DCTDecode" {
			if data, err = img.ToPNG(); err != nil {
				fmt.Fprintf(os.Stderr, "image %d: %v\n", i, err)
				continue
			}
			suffix = ".png"
		}
		name := filepath.Join(cmd.Output, fmt.Sprintf("inline-%03d%s", i, suffix))
		if err := os.WriteFile(name, data, 0644); err != nil {
			return err
		}
		fmt.Printf("%s: %dx%d %s\n", name, img.Width, img.Height, img.ColorSpace)
	}
	return nil
}

func (cmd *Info) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}

	r, err := reader.Open(cmd.Input, source.WithMemoryMapping(false))
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Println("File name:", filepath.Base(cmd.Input))
	fmt.Println("Version:", r.Version())
	fmt.Println("Header offset:", r.HeaderOffset())
	fmt.Println("Size:", r.FileSize())
	return nil
}
