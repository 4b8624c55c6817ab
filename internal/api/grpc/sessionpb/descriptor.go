package sessionpb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	_ "google.golang.org/protobuf/types/known/emptypb"
	_ "google.golang.org/protobuf/types/known/structpb"
)

// FileName is the proto file the service is registered under.
const FileName = "signpath/v1/session.proto"

const (
	structType = ".google.protobuf.Struct"
	emptyType  = ".google.protobuf.Empty"
)

// The descriptor goes into the global registry so server reflection can
// describe the service like a generated one.
func init() {
	if err := registerFile(protoregistry.GlobalFiles); err != nil {
		panic(err)
	}
}

func registerFile(files *protoregistry.Files) error {
	fd, err := protodesc.NewFile(fileDescriptor(), files)
	if err != nil {
		return fmt.Errorf("failed to build %s descriptor: %w", FileName, err)
	}
	if err := files.RegisterFile(fd); err != nil {
		return fmt.Errorf("failed to register %s: %w", FileName, err)
	}
	return nil
}

func fileDescriptor() *descriptorpb.FileDescriptorProto {
	method := func(name, in, out string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(in),
			OutputType: proto.String(out),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String("signpath.v1"),
		Dependency: []string{
			"google/protobuf/empty.proto",
			"google/protobuf/struct.proto",
		},
		Syntax: proto.String("proto3"),
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Session"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("Login", structType, structType),
				method("Signup", structType, structType),
				method("SetRole", structType, structType),
				method("Logout", emptyType, emptyType),
				method("Current", emptyType, structType),
			},
		}},
	}
}
