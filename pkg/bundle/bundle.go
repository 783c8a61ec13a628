// Package bundle assembles tone matching task bundles.
//
// A bundle is a zip file holding the record source (data.xml), the task
// settings (settings.json) and the audio assets referenced by the selected
// records (audio/<name>). Assets that cannot be found are reported, never
// fatal.
package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/agentstation/tonematch/pkg/constants"
	"github.com/agentstation/tonematch/pkg/errors"
	"github.com/agentstation/tonematch/pkg/records"
)

// Request describes one bundle to assemble.
type Request struct {
	// SourcePath is the record source XML file.
	SourcePath string

	// AssetDir is the directory holding the audio assets.
	AssetDir string

	// OutputPath is where the bundle is written.
	OutputPath string

	Settings Settings
}

// Summary reports what went into a bundle.
type Summary struct {
	OutputPath  string   `json:"output_path" yaml:"output_path"`
	BundleID    string   `json:"bundle_id" yaml:"bundle_id"`
	RecordCount int      `json:"record_count" yaml:"record_count"`
	AssetCount  int      `json:"asset_count" yaml:"asset_count"`
	Assets      []string `json:"assets" yaml:"assets"`

	// Unresolved lists referenced assets missing from the asset directory,
	// in encounter order. It is nil when every asset was found.
	Unresolved []string `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// Complete returns true if every referenced asset was found.
func (s *Summary) Complete() bool {
	return len(s.Unresolved) == 0
}

// Assemble builds the bundle described by req.
func Assemble(ctx context.Context, req Request, opts ...Option) (*Summary, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(req.SourcePath)
	if err != nil {
		return nil, errors.WrapIO("read", req.SourcePath, err)
	}
	doc, err := records.DecodeBytes(source)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = req.SourcePath
		}
		return nil, err
	}
	if doc.Len() == 0 {
		return nil, &errors.ParseError{
			Format:  "xml",
			File:    req.SourcePath,
			Message: "no data_form elements found",
			Err:     errors.ErrNoRecords,
		}
	}

	selected := doc.Filter(o.keyField, req.Settings.ReferenceNumbers)
	assets, unresolved := resolveAssets(selected, req.AssetDir, o.soundFileField, req.Settings.Suffix())

	settings := req.Settings
	if settings.ReferenceNumbers == nil {
		settings.ReferenceNumbers = []string{}
	}
	settings.BundleID = o.newID()
	settings.CreatedAt = o.now()

	data := source
	if o.filterData {
		var buf bytes.Buffer
		if err := records.Encode(&buf, selected); err != nil {
			return nil, err
		}
		data = buf.Bytes()
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.ErrCanceled
	}
	if err := writeBundle(ctx, req.OutputPath, data, &settings, req.AssetDir, assets); err != nil {
		return nil, err
	}

	summary := &Summary{
		OutputPath:  req.OutputPath,
		BundleID:    settings.BundleID,
		RecordCount: selected.Len(),
		AssetCount:  len(assets),
		Assets:      assets,
	}
	if len(unresolved) > 0 {
		summary.Unresolved = unresolved
		o.logger.Warn().
			Int("unresolved", len(unresolved)).
			Str("asset_dir", req.AssetDir).
			Msg("Some audio files were not found")
	}

	o.logger.Info().
		Str("bundle", req.OutputPath).
		Str("bundle_id", settings.BundleID).
		Int("records", summary.RecordCount).
		Int("assets", summary.AssetCount).
		Msg("Bundle created")
	return summary, nil
}

func validateRequest(req *Request) error {
	for field, value := range map[string]string{
		"source":    req.SourcePath,
		"asset_dir": req.AssetDir,
		"output":    req.OutputPath,
	} {
		if value == "" {
			return &errors.ValidationError{Field: field, Message: "is required"}
		}
	}
	return req.Settings.Validate()
}

// resolveAssets collects the sound files of the selected records. Found
// assets are deduplicated in first-seen order; missing ones are listed every
// time they are referenced.
func resolveAssets(doc *records.Document, dir, field, suffix string) (found, missing []string) {
	seen := make(map[string]struct{})
	found = []string{}
	for _, record := range doc.Records {
		name := record[field]
		if name == "" {
			continue
		}
		name = ApplySuffix(name, suffix)

		if _, ok := seen[name]; ok {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			missing = append(missing, name)
			continue
		}
		seen[name] = struct{}{}
		found = append(found, name)
	}
	return found, missing
}

// writeBundle writes the zip to a temporary file next to dest and renames
// it into place once complete.
func writeBundle(ctx context.Context, dest string, data []byte, settings *Settings, assetDir string, assets []string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".bundle_*.zip")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	zw := zip.NewWriter(tmp)
	if err := writeMembers(ctx, zw, data, settings, assetDir, assets); err != nil {
		_ = zw.Close()
		_ = tmp.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return errors.WrapIO("rename", dest, err)
	}
	return nil
}

func writeMembers(ctx context.Context, zw *zip.Writer, data []byte, settings *Settings, assetDir string, assets []string) error {
	if err := writeMember(zw, constants.BundleDataMember, bytes.NewReader(data)); err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return errors.WrapParse("json", constants.BundleSettingsMember, err)
	}
	if err := writeMember(zw, constants.BundleSettingsMember, bytes.NewReader(encoded)); err != nil {
		return err
	}

	for _, name := range assets {
		if err := ctx.Err(); err != nil {
			return errors.ErrCanceled
		}
		if err := copyAsset(zw, assetDir, name); err != nil {
			return err
		}
	}
	return nil
}

func copyAsset(zw *zip.Writer, dir, name string) error {
	src := filepath.Join(dir, name)
	f, err := os.Open(src)
	if err != nil {
		return errors.WrapIO("open", src, err)
	}
	defer func() { _ = f.Close() }()
	return writeMember(zw, path.Join(constants.BundleAudioDir, filepath.ToSlash(name)), f)
}

func writeMember(zw *zip.Writer, name string, r io.Reader) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return errors.WrapIO("write", name, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return errors.WrapIO("write", name, err)
	}
	return nil
}
