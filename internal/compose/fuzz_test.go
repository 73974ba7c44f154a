package compose

import (
	"bytes"
	"testing"

	"github.com/ppiankov/stubguard/internal/kcmdline"
)

func FuzzCompose(f *testing.F) {
	f.Add(true, []byte("root=atomix STUBBY_RT_CLI1 console=ttyS0"), []byte("ro verbose"))
	f.Add(false, []byte(""), []byte("rootkit=yes"))
	f.Add(true, []byte("STUBBY_RT_CLI1 STUBBY_RT_CLI1"), []byte(""))
	f.Add(false, []byte("ro"), []byte("STUBBY_RT_CLI1"))

	f.Fuzz(func(t *testing.T, secure bool, builtin, runtime []byte) {
		cl, err := Compose(secure, builtin, runtime)
		if cl == nil {
			if err == nil {
				t.Fatal("nil line without error")
			}
			return
		}
		if err != nil && kcmdline.CategoryOf(err) != kcmdline.PolicyViolation {
			t.Fatalf("line returned with %v", kcmdline.CategoryOf(err))
		}
		if bytes.Contains(cl.Bytes(), []byte(Namespace)) {
			t.Fatalf("composed line contains namespace: %q", cl.String())
		}
		if cl.Runtime() != string(runtime) {
			t.Fatalf("runtime segment %q, want %q", cl.Runtime(), runtime)
		}
	})
}
