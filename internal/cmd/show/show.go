package show

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rhettg/sysinfo/client"
	"github.com/rhettg/sysinfo/internal/config"
	"github.com/rhettg/sysinfo/internal/sysinfo"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Local gathers the facts of this process as described by conf.
func Local(conf *config.Config) (sysinfo.Report, error) {
	info, err := conf.NewSysInfo()
	if err != nil {
		return sysinfo.Report{}, err
	}
	return info.Report(), nil
}

// Remote fetches the facts of a running server.
func Remote(ctx context.Context, serverURL string) (sysinfo.Report, error) {
	s, err := client.NewClient(serverURL).Status(ctx)
	if err != nil {
		return sysinfo.Report{}, err
	}
	return s.Facts, nil
}

func rows(r sysinfo.Report) [][]string {
	return [][]string{
		{sysinfo.FieldPlatform.String(), r.Platform},
		{sysinfo.FieldOSVersion.String(), r.OSVersion},
		{sysinfo.FieldCPU.String(), r.CPU},
		{sysinfo.FieldArch.String(), r.Arch},
		{"is_64bit", strconv.FormatBool(r.Is64Bit)},
		{sysinfo.FieldCompiler.String(), r.Compiler},
		{sysinfo.FieldCFlags.String(), r.CFlags},
		{sysinfo.FieldVCSType.String(), r.VCSType},
		{sysinfo.FieldSourceRevision.String(), r.SourceRevision},
		{sysinfo.FieldScriptsRevision.String(), r.ScriptsRevision},
		{"scripts_vcs_type", r.ScriptsVCSType},
	}
}

// Print writes r to w as a two column table or as JSON.
func Print(w io.Writer, r sysinfo.Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatTable, "":
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Fact", "Value"})
		table.SetAutoWrapText(false)
		table.AppendBulk(rows(r))
		table.Render()
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// DoShow prints local facts, or those of the server at serverURL when set.
func DoShow(ctx context.Context, w io.Writer, conf *config.Config, serverURL, format string) error {
	var (
		r   sysinfo.Report
		err error
	)
	if serverURL != "" {
		r, err = Remote(ctx, serverURL)
	} else {
		r, err = Local(conf)
	}
	if err != nil {
		return err
	}

	return Print(w, r, format)
}
