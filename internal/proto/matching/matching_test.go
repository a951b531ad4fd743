package matching_test

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pb "github.com/oggyb/amigo-matching/internal/proto/matching"
)

var (
	packageRe = regexp.MustCompile(`(?m)^package\s+([\w.]+)\s*;`)
	serviceRe = regexp.MustCompile(`(?m)^service\s+(\w+)\s*\{`)
	rpcRe     = regexp.MustCompile(`(?m)^\s*rpc\s+(\w+)\s*\(\s*google\.protobuf\.Struct\s*\)\s*returns\s*\(\s*google\.protobuf\.Struct\s*\)`)
)

func TestServiceDescMatchesProto(t *testing.T) {
	src, err := os.ReadFile(pb.MatchingService_ServiceDesc.Metadata.(string))
	require.NoError(t, err)

	pkg := packageRe.FindSubmatch(src)
	require.NotNil(t, pkg)
	svc := serviceRe.FindSubmatch(src)
	require.NotNil(t, svc)
	assert.Equal(t, pb.ServiceName, string(pkg[1])+"."+string(svc[1]))
	assert.Equal(t, pb.ServiceName, pb.MatchingService_ServiceDesc.ServiceName)

	var declared []string
	for _, m := range rpcRe.FindAllSubmatch(src, -1) {
		declared = append(declared, string(m[1]))
	}

	var served []string
	for _, m := range pb.MatchingService_ServiceDesc.Methods {
		served = append(served, m.MethodName)
	}
	assert.Empty(t, pb.MatchingService_ServiceDesc.Streams)
	assert.ElementsMatch(t, declared, served)
}
