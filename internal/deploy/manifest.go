package deploy

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	attrTypeName    = "ApplicationTypeName"
	attrTypeVersion = "ApplicationTypeVersion"
)

// Manifest is the part of an ApplicationManifest.xml this package reads: the
// attributes of the root element. Everything else is ignored.
type Manifest struct {
	Path        string
	TypeName    string
	TypeVersion string
}

// ManifestFile resolves the manifest path of a request against its workspace.
func ManifestFile(workspaceRoot, relPath string) string {
	if workspaceRoot == "" {
		return filepath.FromSlash(relPath)
	}
	return filepath.Join(workspaceRoot, filepath.FromSlash(relPath))
}

// ReadManifest parses the manifest at workspaceRoot/relPath. Read and parse
// failures and a missing ApplicationTypeVersion are returned as *ConfigError
// naming the resolved path.
func ReadManifest(workspaceRoot, relPath string) (*Manifest, error) {
	p := ManifestFile(workspaceRoot, relPath)
	f, err := os.Open(p)
	if err != nil {
		return nil, &ConfigError{Subject: p, Msg: "cannot read application manifest", Err: err}
	}
	defer f.Close()

	root, err := rootElement(f)
	if err != nil {
		return nil, &ConfigError{Subject: p, Msg: "malformed application manifest", Err: err}
	}

	m := &Manifest{Path: p}
	for _, a := range root.Attr {
		switch a.Name.Local {
		case attrTypeName:
			m.TypeName = strings.TrimSpace(a.Value)
		case attrTypeVersion:
			m.TypeVersion = strings.TrimSpace(a.Value)
		}
	}
	if m.TypeVersion == "" {
		return nil, &ConfigError{Subject: p, Msg: "root element has no " + attrTypeVersion + " attribute"}
	}
	return m, nil
}

// ReadManifestVersion returns the ApplicationTypeVersion declared by the
// manifest at workspaceRoot/relPath.
func ReadManifestVersion(workspaceRoot, relPath string) (string, error) {
	m, err := ReadManifest(workspaceRoot, relPath)
	if err != nil {
		return "", err
	}
	return m.TypeVersion, nil
}

// rootElement returns the first start element of the document. The rest of
// the document is still decoded so truncated or malformed files are rejected.
func rootElement(r io.Reader) (xml.StartElement, error) {
	dec := xml.NewDecoder(r)
	var (
		root  xml.StartElement
		found bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok && !found {
			root = se.Copy()
			found = true
		}
	}
	if !found {
		return xml.StartElement{}, errors.New("document has no root element")
	}
	return root, nil
}
