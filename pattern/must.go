package pattern

// The Must variants halt on a contract violation instead of returning it,
// for callers that treat these as programmer errors.

func MustConvert(steps []Step, out *AbsBuffer) uint16 {
	l, err := Convert(steps, out)
	if err != nil {
		panic(err)
	}
	return l
}

func MustTimeOffset(position uint16, offset int32, length uint16) uint16 {
	p, err := TimeOffset(position, offset, length)
	if err != nil {
		panic(err)
	}
	return p
}

func MustAdjust(steps []Step, offset int32, out *AbsBuffer) uint16 {
	l, err := Adjust(steps, offset, out)
	if err != nil {
		panic(err)
	}
	return l
}

func MustSort(events []AbsEvent) {
	if err := Sort(events); err != nil {
		panic(err)
	}
}
