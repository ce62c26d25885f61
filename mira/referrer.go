package mira

// Referrer identifies the execution unit a load request originates from: an
// existing module, a top-level script, or a bare realm. The variant set is
// closed; a referrer shares the handle it wraps, it never owns it.
type Referrer struct {
	module *Module
	script *Script
	realm  *Realm
}

// ModuleReferrer wraps a module that triggered an import.
func ModuleReferrer(m *Module) Referrer {
	return Referrer{module: m}
}

// ScriptReferrer wraps a script that triggered an import.
func ScriptReferrer(s *Script) Referrer {
	return Referrer{script: s}
}

// RealmReferrer marks a host-initiated load with no referrer path.
func RealmReferrer(r *Realm) Referrer {
	return Referrer{realm: r}
}

// Path reports the referrer's path, if it has one. Realm referrers never
// do; module and script referrers may lack one for in-memory sources.
func (r Referrer) Path() (string, bool) {
	switch {
	case r.module != nil:
		return r.module.path, r.module.path != ""
	case r.script != nil:
		return r.script.path, r.script.path != ""
	default:
		return "", false
	}
}

// Kind names the referrer variant for diagnostics.
func (r Referrer) Kind() string {
	switch {
	case r.module != nil:
		return "module"
	case r.script != nil:
		return "script"
	default:
		return "realm"
	}
}
