package late

type Dependency struct{}

func NewDependency() *Dependency { return &Dependency{} }

func (d *Dependency) Doit() bool { return true }
