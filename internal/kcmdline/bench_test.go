package kcmdline

import (
	"strings"
	"testing"
)

func BenchmarkCheck_Typical(b *testing.B) {
	line := []byte("root=atomix ro verbose console=tty0 console=ttyS0")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Check(line)
	}
}

func BenchmarkCheck_MaxTokens(b *testing.B) {
	line := []byte(strings.TrimSpace(strings.Repeat("quiet ", MaxTokens)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Check(line)
	}
}
