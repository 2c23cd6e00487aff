package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"mdnotes/internal/modules/plugin/domain"
	"mdnotes/internal/modules/plugin/dto"
	pluginout "mdnotes/internal/modules/plugin/port/out"
)

type PluginService struct {
	store pluginout.ManifestStore
	host  pluginout.Host
}

func NewPluginService(store pluginout.ManifestStore, host pluginout.Host) *PluginService {
	return &PluginService{store: store, host: host}
}

func (s *PluginService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.PluginInfo{
			Name:         m.Name,
			Version:      m.Version,
			Enabled:      m.Enabled,
			Binary:       m.Binary,
			Capabilities: capabilityNames(m.Capabilities),
		})
	}
	return out, nil
}

// Doctor reports on every manifest, including invalid ones, without failing
// the whole run for a single broken plugin.
func (s *PluginService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		results = append(results, s.diagnose(ctx, m))
	}
	return results, nil
}

func (s *PluginService) diagnose(ctx context.Context, m domain.Manifest) dto.DoctorResult {
	result := dto.DoctorResult{Name: m.Name}
	if err := m.Validate(); err != nil {
		result.Error = err.Error()
		return result
	}
	switch err := verifyBinary(m); {
	case errors.Is(err, domain.ErrBinaryMissing):
		result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		return result
	case errors.Is(err, domain.ErrChecksumMismatch):
		result.BinaryReachable = true
		result.Error = "checksum mismatch"
		return result
	case err != nil:
		result.Error = err.Error()
		return result
	}
	result.BinaryReachable = true
	result.ChecksumValid = true
	if !m.Enabled || s.host == nil {
		return result
	}

	if err := s.host.CheckLifecycle(ctx, m); err != nil {
		result.Error = err.Error()
		return result
	}
	result.LifecycleOK = true
	meta, err := s.host.GetMetadata(ctx, m)
	if err != nil {
		result.Error = fmt.Sprintf("metadata: %v", err)
		return result
	}
	if err := checkMetadata(m, meta); err != nil {
		result.Error = err.Error()
	}
	return result
}

// checkMetadata compares what the running binary advertises with its
// manifest: same name, and every declared capability actually served.
func checkMetadata(m domain.Manifest, meta domain.Metadata) error {
	if meta.Name != m.Name {
		return fmt.Errorf("binary reports name %q, manifest says %q", meta.Name, m.Name)
	}
	served := map[domain.Capability]bool{}
	for _, c := range meta.Capabilities {
		served[c] = true
	}
	for _, c := range m.Capabilities {
		if !served[c] {
			return fmt.Errorf("%w: %s does not serve %s", domain.ErrCapabilityMissing, m.Name, c)
		}
	}
	return nil
}

// ResolveCitekeys asks every enabled citekey plugin, in manifest order, for
// the items earlier plugins left unresolved.
func (s *PluginService) ResolveCitekeys(ctx context.Context, input dto.ResolveCitekeysInput) (dto.ResolveCitekeysOutput, error) {
	out := dto.ResolveCitekeysOutput{Citekeys: map[string]string{}, ResolvedBy: map[string]string{}}
	pending := make([]domain.CitekeyItem, 0, len(input.Items))
	for _, item := range input.Items {
		ref := domain.CitekeyItem{Key: item.Key, Type: item.Type, Title: item.Title, Authors: item.Authors, Date: item.Date, Extra: item.Extra}
		if err := ref.Validate(); err != nil {
			return dto.ResolveCitekeysOutput{}, err
		}
		pending = append(pending, ref)
	}
	if len(pending) == 0 || s.host == nil {
		return out, nil
	}

	manifests, err := s.runnableManifests(ctx, domain.CapabilityCitekey)
	if err != nil {
		return dto.ResolveCitekeysOutput{}, err
	}
	for _, manifest := range manifests {
		if len(pending) == 0 {
			break
		}
		resolved, err := s.host.ResolveCitekeys(ctx, manifest, pending)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return dto.ResolveCitekeysOutput{}, fmt.Errorf("%w: %s", domain.ErrPluginTimeout, manifest.Name)
			}
			return dto.ResolveCitekeysOutput{}, fmt.Errorf("plugin %s: %w", manifest.Name, err)
		}
		next := pending[:0:0]
		for _, item := range pending {
			if key := resolved[item.Key]; key != "" {
				out.Citekeys[item.Key] = key
				out.ResolvedBy[item.Key] = manifest.Name
				continue
			}
			next = append(next, item)
		}
		pending = next
	}
	return out, nil
}

func (s *PluginService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

// runnableManifests returns enabled plugins with the capability whose binary
// still matches its checksum. Disabled plugins are skipped silently.
func (s *PluginService) runnableManifests(ctx context.Context, requiredCapability domain.Capability) ([]domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Manifest{}
	for _, manifest := range manifests {
		if !manifest.Enabled || !manifest.HasCapability(requiredCapability) {
			continue
		}
		if err := verifyBinary(manifest); err != nil {
			return nil, err
		}
		out = append(out, manifest)
	}
	return out, nil
}

// verifyBinary streams the plugin binary through sha256 and compares it to
// the pinned digest.
func verifyBinary(m domain.Manifest) error {
	f, err := os.Open(m.Binary)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrBinaryMissing, m.Binary)
		}
		return fmt.Errorf("open plugin binary: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash plugin binary: %w", err)
	}
	if hex.EncodeToString(h.Sum(nil)) != m.SHA256 {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(m.Binary))
	}
	return nil
}

func capabilityNames(caps []domain.Capability) []string {
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out
}
