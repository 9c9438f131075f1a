// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/db47h/gatesim/internal/slug"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// LibraryExt is the file extension of custom gate library files.
//
const LibraryExt = ".json"

// LoadLibrary registers every custom gate found in the *.json files of dir.
//
// The gate label is taken from the file's "label" or "name" key, or from the
// file name. Types are "custom-<slug of label>", suffixed with -2, -3... when
// two files share a slug. Files may use gates defined by other files of the
// same directory.
//
// A missing directory is not an error. Files that cannot be read, parsed or
// compiled are skipped and reported in the returned *multierror.Error along
// with the definitions that were registered.
//
func LoadLibrary(fs afero.Fs, dir string, reg *Registry, opts ...Option) ([]*Definition, error) {
	o := newOptions(opts)
	fis, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read custom gate library")
	}

	var (
		result  *multierror.Error
		pending []CustomGate
		types   = make(map[string]bool)
	)
	for _, fi := range fis {
		if !fi.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(fi.Name()), LibraryExt) {
			continue
		}
		cg, err := readLibraryFile(fs, dir, fi.Name())
		if err != nil {
			o.log.Warn("skipping custom gate", "file", fi.Name(), "error", err)
			result = multierror.Append(result, err)
			continue
		}
		base := slug.Make(cg.Label, "custom-gate")
		typ := base
		for n := 2; types[typ]; n++ {
			typ = base + "-" + strconv.Itoa(n)
		}
		types[typ] = true
		cg.Type = "custom-" + typ
		pending = append(pending, cg)
	}

	var defs []*Definition
	for len(pending) > 0 {
		var (
			left []CustomGate
			errs *multierror.Error
		)
		for _, cg := range pending {
			d, err := reg.RegisterCustom(cg)
			if err != nil {
				left = append(left, cg)
				errs = multierror.Append(errs, errors.Wrapf(err, "%s", cg.FileName))
				continue
			}
			o.log.Debug("registered custom gate", "type", d.Type, "file", cg.FileName)
			defs = append(defs, d)
		}
		if len(left) == len(pending) {
			for _, e := range errs.Errors {
				o.log.Warn("skipping custom gate", "error", e)
			}
			result = multierror.Append(result, errs.Errors...)
			break
		}
		pending = left
	}
	return defs, result.ErrorOrNil()
}

func readLibraryFile(fs afero.Fs, dir, name string) (CustomGate, error) {
	data, err := afero.ReadFile(fs, filepath.Join(dir, name))
	if err != nil {
		return CustomGate{}, errors.Wrapf(err, "%s", name)
	}
	var raw map[string]interface{}
	if err = json.Unmarshal(data, &raw); err != nil {
		return CustomGate{}, errors.Wrapf(err, "%s", name)
	}
	label, ok := raw["label"].(string)
	if !ok {
		label, _ = raw["name"].(string)
	}
	if label == "" {
		label = strings.TrimSuffix(name, filepath.Ext(name))
	}
	desc, _ := raw["description"].(string)
	tmpl, _ := raw["customVhdl"].(string)
	return CustomGate{
		Label:        label,
		FileName:     name,
		Description:  strings.TrimSpace(desc),
		Abbreviation: slug.Abbreviation(label),
		VHDL:         strings.TrimSpace(tmpl),
		Source:       SourceFilesystem,
		Snapshot:     DecodeSnapshot(raw),
	}, nil
}
