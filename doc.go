// Package jsoncodec is a small, generic serialization framework built on a
// JSON value model and two composable typeclasses.
//
// Components:
//   - Value: a closed JSON variant (Null, Bool, Num, Str, Obj, Arr). Num is an
//     arbitrary-precision decimal, so large or exact integers never lose digits.
//   - Encoder[A]: A -> Value, total. Contravariant: Contramap takes B -> A.
//   - Decoder[A]: Value -> (A, bool). Covariant: Map takes A -> B; Zip pairs
//     two decoders run on the same input.
//   - ObjectEncoder[A]: an Encoder that always yields an Obj, so two of them
//     merge by field union (ZipObject).
//
// Records are built field by field and zipped pairwise:
//
//	var personEnc = jsoncodec.ContramapObject(
//	    jsoncodec.ZipObject(
//	        jsoncodec.EncodeField[string]("name", jsoncodec.String),
//	        jsoncodec.EncodeField[int]("age", jsoncodec.Int),
//	    ),
//	    func(p Person) jsoncodec.Pair[string, int] { return jsoncodec.MakePair(p.Name, p.Age) },
//	)
//
//	var personDec = jsoncodec.Map(
//	    jsoncodec.Zip(
//	        jsoncodec.DecodeField[string]("name", jsoncodec.String),
//	        jsoncodec.DecodeField[int]("age", jsoncodec.Int),
//	    ),
//	    func(p jsoncodec.Pair[string, int]) Person { return Person{Name: p.First, Age: p.Second} },
//	)
//
// Decoding failure is a single kind, shape mismatch, reported as false with no
// detail. Wrap a decoder with Observe to log or count rejections.
//
// Text, CBOR, MessagePack and protobuf wire formats live in the jsontext and
// codec packages; store persists documents through a byte Provider.
package jsoncodec
