// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	serializerSubsystem   = "serializer"
	deserializerSubsystem = "deserializer"
	formatterSubsystem    = "formatter"

	// 操作标签取值
	OpBuild      = "build"
	OpBuildMany  = "build_many"
	OpEncode     = "encode"
	OpEncodeMany = "encode_many"
	OpApply      = "apply"

	// 反序列化字段结果标签取值
	FieldAssigned = "assigned"
	FieldSkipped  = "skipped"
	FieldRejected = "rejected"
)

var (
	SerializerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: recjsonNamespace,
			Subsystem: serializerSubsystem,
			Name:      "operations_total",
			Help:      "序列化/反序列化调用次数，按操作与结果区分",
		}, []string{opLabelName, statusLabelName})

	SerializerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: recjsonNamespace,
			Subsystem: serializerSubsystem,
			Name:      "latency",
			Help:      "序列化调用耗时（毫秒）",
			Buckets:   buckets,
		}, []string{opLabelName})

	SerializerDocumentBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: recjsonNamespace,
			Subsystem: serializerSubsystem,
			Name:      "document_bytes",
			Help:      "编码后文档的字节数",
			Buckets:   sizeBuckets,
		}, []string{opLabelName})

	DeserializerFields = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: recjsonNamespace,
			Subsystem: deserializerSubsystem,
			Name:      "fields_total",
			Help:      "反序列化时处理的键数量，按 assigned/skipped/rejected 区分",
		}, []string{resultLabelName})

	FormatterOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: recjsonNamespace,
			Subsystem: formatterSubsystem,
			Name:      "operations_total",
			Help:      "JSON 美化调用次数，按结果区分",
		}, []string{statusLabelName})
)

func registerSerializerMetrics(r prometheus.Registerer) {
	mustRegister(r, SerializerOperations)
	mustRegister(r, SerializerLatency)
	mustRegister(r, SerializerDocumentBytes)
	mustRegister(r, DeserializerFields)
	mustRegister(r, FormatterOperations)
}
