package native

// Call is one recorded invocation of the native boundary.
type Call struct {
	Num  int64
	Args [6]uint64
}

// FakeKernel records every forwarded tuple and returns programmable results.
// Bridge tests use it to verify the pure-relay contract.
type FakeKernel struct {
	Calls   []Call
	Results map[int64]int64
	Default int64
}

func (k *FakeKernel) Syscall(num int64, args [6]uint64) int64 {
	k.Calls = append(k.Calls, Call{Num: num, Args: args})
	if r, ok := k.Results[num]; ok {
		return r
	}
	return k.Default
}
