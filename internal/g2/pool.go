package g2

import "sync"

var floatPool = sync.Pool{
	New: func() any {
		buf := make([]float32, 0, 4096)
		return &buf
	},
}

var maskPool = sync.Pool{
	New: func() any {
		buf := make([]uint8, 0, 4096)
		return &buf
	},
}

// getFloats returns a zeroed buffer of length n from the pool.
func getFloats(n int) *[]float32 {
	bufPtr := floatPool.Get().(*[]float32)
	if cap(*bufPtr) < n {
		*bufPtr = make([]float32, n)
	}
	*bufPtr = (*bufPtr)[:n]
	for i := range *bufPtr {
		(*bufPtr)[i] = 0
	}
	return bufPtr
}

func getMask(n int) *[]uint8 {
	bufPtr := maskPool.Get().(*[]uint8)
	if cap(*bufPtr) < n {
		*bufPtr = make([]uint8, n)
	}
	*bufPtr = (*bufPtr)[:n]
	return bufPtr
}

// Release returns the field's buffers to the pool. Data and Bitmap must not
// be used afterwards. Release is safe to call more than once.
func (f *Field) Release() {
	if f.dataBuf != nil {
		floatPool.Put(f.dataBuf)
		f.dataBuf = nil
		f.Data = nil
	}
	if f.maskBuf != nil {
		maskPool.Put(f.maskBuf)
		f.maskBuf = nil
		f.Bitmap = nil
	}
}
