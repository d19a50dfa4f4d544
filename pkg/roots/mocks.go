package roots

// Test doubles for the collaborator interfaces. They record calls so
// tests can assert on backend traffic, e.g. that an idempotent re-mount
// issues no second mount call.

type MountCall struct {
	Device     string
	MountPoint string
	Filesystem string
}

type DummyMounter struct {
	Calls []MountCall
	Err   error
	// OnMount, when set, decides the result per call and may update a
	// DummyScanner to make the mount visible.
	OnMount func(device, mountPoint, filesystem string) error
}

func (m *DummyMounter) Mount(device, mountPoint, filesystem string) error {
	m.Calls = append(m.Calls, MountCall{device, mountPoint, filesystem})
	if m.OnMount != nil {
		return m.OnMount(device, mountPoint, filesystem)
	}
	return m.Err
}

type DummyScanner struct {
	Volumes    []MountedVolume
	Rescans    int
	Unmounted  []string
	RescanErr  error
	UnmountErr error
}

func (s *DummyScanner) Rescan() error {
	s.Rescans++
	return s.RescanErr
}

func (s *DummyScanner) FindByMountPoint(mountPoint string) *MountedVolume {
	for i := range s.Volumes {
		if s.Volumes[i].MountPoint == mountPoint {
			return &s.Volumes[i]
		}
	}
	return nil
}

func (s *DummyScanner) Unmount(v *MountedVolume) error {
	s.Unmounted = append(s.Unmounted, v.MountPoint)
	if s.UnmountErr != nil {
		return s.UnmountErr
	}
	for i := range s.Volumes {
		if s.Volumes[i].MountPoint == v.MountPoint {
			s.Volumes = append(s.Volumes[:i], s.Volumes[i+1:]...)
			break
		}
	}
	return nil
}

// Mount records the volume so a later FindByMountPoint sees it.
func (s *DummyScanner) Mount(device, mountPoint, filesystem string) {
	s.Volumes = append(s.Volumes, MountedVolume{device, mountPoint, filesystem})
}

type DummyMtdWriter struct {
	EraseErr error
	CloseErr error
	Erases   int
	Closes   int
}

func (w *DummyMtdWriter) EraseAll() error {
	w.Erases++
	return w.EraseErr
}

func (w *DummyMtdWriter) Close() error {
	w.Closes++
	return w.CloseErr
}

type DummyMtd struct {
	Partitions []MtdPartition
	Writer     *DummyMtdWriter
	Rescans    int
	Mounts     []MountCall
	RescanErr  error
	MountErr   error
	OpenErr    error
}

func (b *DummyMtd) Rescan() error {
	b.Rescans++
	return b.RescanErr
}

func (b *DummyMtd) FindByName(name string) *MtdPartition {
	for i := range b.Partitions {
		if b.Partitions[i].Name == name {
			return &b.Partitions[i]
		}
	}
	return nil
}

func (b *DummyMtd) MountPartition(p *MtdPartition, mountPoint, filesystem string) error {
	b.Mounts = append(b.Mounts, MountCall{p.Name, mountPoint, filesystem})
	return b.MountErr
}

func (b *DummyMtd) OpenWrite(p *MtdPartition) (MtdWriter, error) {
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	if b.Writer == nil {
		b.Writer = &DummyMtdWriter{}
	}
	return b.Writer, nil
}

type DummyMmc struct {
	Partitions []MmcPartition
	Rescans    int
	Formatted  []string
	RescanErr  error
	FormatErr  error
}

func (b *DummyMmc) Rescan() error {
	b.Rescans++
	return b.RescanErr
}

func (b *DummyMmc) FindByName(name string) *MmcPartition {
	for i := range b.Partitions {
		if b.Partitions[i].Name == name {
			return &b.Partitions[i]
		}
	}
	return nil
}

func (b *DummyMmc) FormatExt3(p *MmcPartition) error {
	b.Formatted = append(b.Formatted, p.Name)
	return b.FormatErr
}

type RunCall struct {
	Name string
	Args []string
}

type DummyRunner struct {
	Calls []RunCall
	Err   error
	// OnRun, when set, decides the result per invocation.
	OnRun func(name string, args ...string) error
}

func (r *DummyRunner) Run(name string, args ...string) error {
	r.Calls = append(r.Calls, RunCall{Name: name, Args: args})
	if r.OnRun != nil {
		return r.OnRun(name, args...)
	}
	return r.Err
}
